package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/guildbot/internal/storage"
)

func newTestContext(gw *fakeGateway, aw *fakeAwaiter) *Context {
	return &Context{
		Deps: Deps{Gateway: gw, Awaiter: aw, AskTimeout: 50 * time.Millisecond},
		Message: &discordgo.Message{
			ID:        "m1",
			ChannelID: "c1",
			GuildID:   "g1",
			Author:    &discordgo.User{ID: "u1", Username: "alice"},
		},
		Guild: storage.NewGuildConfig("g1", storage.Defaults{Prefix: "!", Theme: 0xb01e66}),
	}
}

func TestSayAppliesTheme(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestContext(gw, &fakeAwaiter{})

	_, err := c.Say(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{
		{Title: "plain"},
		{Title: "colored", Color: 0x00ff00},
	}})
	require.NoError(t, err)

	msgs := gw.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "c1", msgs[0].channelID)
	assert.Equal(t, 0xb01e66, msgs[0].data.Embeds[0].Color)
	assert.Equal(t, 0x00ff00, msgs[0].data.Embeds[1].Color)
}

func TestSayWrapsGatewayError(t *testing.T) {
	boom := errors.New("boom")
	c := newTestContext(&fakeGateway{sendErr: boom}, &fakeAwaiter{})

	_, err := c.SayText("hi")
	assert.ErrorIs(t, err, boom)
}

func TestAskReturnsAuthorReply(t *testing.T) {
	gw := &fakeGateway{}
	aw := &fakeAwaiter{}
	c := newTestContext(gw, aw)

	gw.onSend = func(data *discordgo.MessageSend) {
		if data.Content != "Which channel?" {
			return
		}
		aw.deliver(&discordgo.Message{ChannelID: "c1", Author: &discordgo.User{ID: "u2"}, Content: "not me"})
		aw.deliver(&discordgo.Message{ChannelID: "c2", Author: &discordgo.User{ID: "u1"}, Content: "wrong channel"})
		aw.deliver(&discordgo.Message{ChannelID: "c1", Author: &discordgo.User{ID: "u1"}, Content: "filtered"})
		aw.deliver(&discordgo.Message{ChannelID: "c1", Author: &discordgo.User{ID: "u1"}, Content: "#general"})
	}

	got, err := c.Ask(context.Background(), &discordgo.MessageSend{Content: "Which channel?"}, func(m *discordgo.Message) bool {
		return m.Content != "filtered"
	})
	require.NoError(t, err)
	assert.Equal(t, "#general", got)
	assert.Len(t, gw.messages(), 1)
	assert.Equal(t, 1, aw.stopped)
}

func TestAskTimeout(t *testing.T) {
	gw := &fakeGateway{}
	aw := &fakeAwaiter{}
	c := newTestContext(gw, aw)

	_, err := c.AskMessage(context.Background(), &discordgo.MessageSend{Content: "Anyone?"}, nil)
	require.ErrorIs(t, err, ErrNoResponse)

	msgs := gw.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, NoResponseNotice, msgs[1].data.Content)
	assert.Equal(t, 1, aw.stopped)
}

func TestAskTimeoutNoticeFailure(t *testing.T) {
	boom := errors.New("boom")
	gw := &fakeGateway{}
	gw.onSend = func(*discordgo.MessageSend) {
		gw.mu.Lock()
		gw.sendErr = boom
		gw.mu.Unlock()
	}
	c := newTestContext(gw, &fakeAwaiter{})

	_, err := c.AskMessage(context.Background(), &discordgo.MessageSend{Content: "Anyone?"}, nil)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoResponse)
	assert.Len(t, gw.messages(), 1)
}

func TestAskCancelled(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestContext(gw, &fakeAwaiter{})
	c.AskTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	gw.onSend = func(*discordgo.MessageSend) { cancel() }

	_, err := c.Ask(ctx, &discordgo.MessageSend{Content: "Anyone?"}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gw.messages(), 1, "no notice on cancellation")
}

func TestAskSendFailure(t *testing.T) {
	boom := errors.New("boom")
	aw := &fakeAwaiter{}
	c := newTestContext(&fakeGateway{sendErr: boom}, aw)

	_, err := c.Ask(context.Background(), &discordgo.MessageSend{Content: "?"}, nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, aw.stopped)
}

func TestWithLoggerPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	inner := &stubCommand{name: "ping", group: "Utility", err: boom}
	cmd := Apply(inner, WithLogger())

	assert.Equal(t, "ping", cmd.Name())
	assert.Equal(t, "Utility", cmd.Group())
	assert.ErrorIs(t, cmd.Execute(context.Background(), &Context{Message: &discordgo.Message{}}), boom)
	assert.Equal(t, 1, inner.executed)
}
