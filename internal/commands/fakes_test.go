package commands

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

var defaults = storage.Defaults{Prefix: "!", Theme: 0xb01e66}

type fakeGateway struct {
	mu      sync.Mutex
	sent    map[string][]*discordgo.MessageSend
	failFor map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sent: map[string][]*discordgo.MessageSend{}, failFor: map[string]bool{}}
}

func (g *fakeGateway) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failFor[channelID] {
		return nil, errors.New("Unknown Channel")
	}
	g.sent[channelID] = append(g.sent[channelID], data)
	return &discordgo.Message{ChannelID: channelID, Content: data.Content}, nil
}

func (g *fakeGateway) UserChannelPermissions(string, string, ...discordgo.RequestOption) (int64, error) {
	return discordgo.PermissionAdministrator, nil
}

func (g *fakeGateway) in(channelID string) []*discordgo.MessageSend {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*discordgo.MessageSend(nil), g.sent[channelID]...)
}

func (g *fakeGateway) lastText(t *testing.T, channelID string) string {
	t.Helper()
	msgs := g.in(channelID)
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1].Content
}

func (g *fakeGateway) lastEmbed(t *testing.T, channelID string) *discordgo.MessageEmbed {
	t.Helper()
	msgs := g.in(channelID)
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	require.NotEmpty(t, last.Embeds)
	return last.Embeds[0]
}

// scriptedAwaiter answers each Watch with the first queued reply its match
// accepts. Rejected replies are consumed.
type scriptedAwaiter struct {
	mu      sync.Mutex
	replies []*discordgo.Message
}

func (a *scriptedAwaiter) Watch(channelID string, match func(*discordgo.Message) bool) (<-chan *discordgo.Message, func()) {
	ch := make(chan *discordgo.Message, 1)
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.replies) > 0 {
		m := a.replies[0]
		a.replies = a.replies[1:]
		if m.ChannelID == channelID && match(m) {
			ch <- m
			break
		}
	}
	return ch, func() {}
}

func reply(content string) *discordgo.Message {
	return &discordgo.Message{ChannelID: "c1", Author: &discordgo.User{ID: "u1"}, Content: content}
}

type fixture struct {
	gw    *fakeGateway
	aw    *scriptedAwaiter
	store *storage.Memory
	reg   *command.Registry
	state *discordgo.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gw:    newFakeGateway(),
		aw:    &scriptedAwaiter{},
		store: storage.NewMemory(defaults),
		reg:   command.NewRegistry(),
		state: discordgo.NewState(),
	}
	require.NoError(t, f.reg.Load(Manifest(), nil, nil))
	return f
}

// run invokes a registered command the way the router does.
func (f *fixture) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	cmd, ok := f.reg.Get(name)
	require.True(t, ok, name)

	guild, err := f.store.Get(t.Context(), "g1")
	require.NoError(t, err)

	return cmd.Execute(t.Context(), &command.Context{
		Deps: command.Deps{
			Gateway:    f.gw,
			Awaiter:    f.aw,
			State:      f.state,
			Store:      f.store,
			Registry:   f.reg,
			AskTimeout: 50 * time.Millisecond,
		},
		Message: &discordgo.Message{
			ID:        "m1",
			GuildID:   "g1",
			ChannelID: "c1",
			Author:    &discordgo.User{ID: "u1", Username: "alice"},
		},
		Args:  args,
		Guild: guild,
	})
}

func (f *fixture) guild(t *testing.T) *storage.GuildConfig {
	t.Helper()
	cfg, err := f.store.Get(t.Context(), "g1")
	require.NoError(t, err)
	return cfg
}

func (f *fixture) hookContext() *command.HookContext {
	return &command.HookContext{Gateway: f.gw, State: f.state, Store: f.store, Registry: f.reg}
}
