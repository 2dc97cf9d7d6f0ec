package commands

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

func TestManifest(t *testing.T) {
	want := []string{"stats", "help", "ping", "afk", "prefix", "theme", "welcomer", "farewell", "ignore"}

	var names []string
	for _, e := range Manifest() {
		assert.False(t, command.IsDraft(e.Name))
		cmd, err := e.New()
		require.NoError(t, err)
		assert.Equal(t, e.Name, cmd.Name())
		names = append(names, e.Name)
	}
	assert.Equal(t, want, names)
}

func TestSettingsCommandsRequireManageServer(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"prefix", "theme", "welcomer", "farewell", "ignore"} {
		cmd, ok := f.reg.Get(name)
		require.True(t, ok)
		user, _ := command.Requirements(cmd)
		assert.Equal(t, []int64{discordgo.PermissionManageServer}, user, name)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	member := func(id string) *discordgo.Member { return &discordgo.Member{User: &discordgo.User{ID: id}} }
	require.NoError(t, f.state.GuildAdd(&discordgo.Guild{ID: "g1", Members: []*discordgo.Member{member("a"), member("b")}}))
	require.NoError(t, f.state.GuildAdd(&discordgo.Guild{ID: "g2", Members: []*discordgo.Member{member("b"), member("c")}}))

	require.NoError(t, f.run(t, "stats"))

	e := f.gw.lastEmbed(t, "c1")
	assert.Equal(t, "Statistics", e.Title)
	assert.Equal(t, "Servers: 2\nUnique users: 3", e.Description)
	assert.Equal(t, defaults.Theme, e.Color)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run(t, "ping"))
	assert.Equal(t, "Pong!", f.gw.lastText(t, "c1"))
}

func TestAFKCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "afk", "grabbing", "lunch"))
	assert.Equal(t, "I set your AFK: grabbing lunch", f.gw.lastText(t, "c1"))

	require.NoError(t, f.run(t, "afk"))
	entry, ok := f.guild(t).FindAFK("u1")
	require.True(t, ok)
	assert.Equal(t, defaultAFKMessage, entry.Message)
	assert.Len(t, f.guild(t).AFK, 1)
}

func TestPrefixCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "prefix"))
	assert.Equal(t, "The current prefix is `!`", f.gw.lastText(t, "c1"))

	require.NoError(t, f.run(t, "prefix", "hey", ""))
	assert.Equal(t, "hey ", f.guild(t).Prefix)
	assert.Equal(t, "Prefix set to `hey `", f.gw.lastText(t, "c1"))
}

func TestThemeCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "theme"))
	assert.Contains(t, f.gw.lastEmbed(t, "c1").Description, "#b01e66")

	require.NoError(t, f.run(t, "theme", "#00ff00"))
	assert.Equal(t, 0x00ff00, f.guild(t).Theme)
	assert.Equal(t, 0x00ff00, f.gw.lastEmbed(t, "c1").Color)

	require.NoError(t, f.run(t, "theme", "blurple"))
	assert.Contains(t, f.gw.lastText(t, "c1"), "is not a color")
	assert.Equal(t, 0x00ff00, f.guild(t).Theme)

	require.NoError(t, f.run(t, "theme", "#000000"))
	assert.Contains(t, f.gw.lastText(t, "c1"), "shows as no color")
	assert.Equal(t, 0x00ff00, f.guild(t).Theme)
}

func TestHelp(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "help"))
	msgs := f.gw.in("c1")
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Embeds, 1)

	fields := msgs[0].Embeds[0].Fields
	require.Len(t, fields, len(Manifest()))
	assert.Equal(t, "!afk (Utility)", fields[0].Name)
	assert.Equal(t, "!farewell (Settings)", fields[4].Name)
}

func TestHelpDescribe(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "help", "prefix"))
	e := f.gw.lastEmbed(t, "c1")
	assert.Equal(t, "!prefix", e.Title)
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "Manage Server", e.Fields[1].Value)

	require.NoError(t, f.run(t, "help", "nope"))
	assert.Equal(t, "There is no command called `nope`.", f.gw.lastText(t, "c1"))
}

func TestHelpFieldsChunked(t *testing.T) {
	var cmds []command.Command
	for i := 0; i < 30; i++ {
		cmds = append(cmds, &Ping{})
	}
	fields := helpFields(cmds, "!")
	assert.Len(t, fields, 30)

	msgs := helpMessages(fields, "!")
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0], 2)
	assert.Len(t, msgs[0][0].Fields, 25)
	assert.Equal(t, "Help", msgs[0][0].Title)
	assert.Len(t, msgs[0][1].Fields, 5)
	assert.Empty(t, msgs[0][1].Title)
}

func TestHelpMessagesRespectEmbedLimit(t *testing.T) {
	fields := make([]*discordgo.MessageEmbedField, 260)
	for i := range fields {
		fields[i] = &discordgo.MessageEmbedField{Name: fmt.Sprintf("!cmd%d", i), Value: "x"}
	}

	msgs := helpMessages(fields, "!")
	require.Len(t, msgs, 2)
	assert.Len(t, msgs[0], 10)
	assert.Len(t, msgs[1], 1)
	assert.Len(t, msgs[1][0].Fields, 10)

	empty := helpMessages(nil, "!")
	require.Len(t, empty, 1)
	assert.Equal(t, "No commands are loaded.", empty[0][0].Description)
}

func TestGreeterSetup(t *testing.T) {
	f := newFixture(t)
	f.aw.replies = []*discordgo.Message{
		reply("general"),
		reply("<#42>"),
		reply("Hi {user}, welcome to {server}"),
	}

	require.NoError(t, f.run(t, "welcomer", "setup"))

	g := f.guild(t).Welcomer
	assert.True(t, g.Enabled)
	require.NotNil(t, g.Channel)
	assert.Equal(t, "42", *g.Channel)
	assert.Equal(t, "Hi {user}, welcome to {server}", g.Message)
	assert.Equal(t, "The welcomer is set up in <#42>.", f.gw.lastText(t, "c1"))
}

func TestGreeterSetupTimeout(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, "farewell", "setup")
	require.ErrorIs(t, err, command.ErrNoResponse)
	assert.Equal(t, command.NoResponseNotice, f.gw.lastText(t, "c1"))
	assert.False(t, f.guild(t).Farewell.Enabled)
}

func TestGreeterOnOff(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "welcomer", "on"))
	assert.Equal(t, "Run `!welcomer setup` first.", f.gw.lastText(t, "c1"))
	assert.False(t, f.guild(t).Welcomer.Enabled)

	channel := "42"
	require.NoError(t, f.store.SetGreeting(t.Context(), "g1", storage.Welcomer, storage.Greeting{Channel: &channel, Message: "hi"}))
	require.NoError(t, f.run(t, "welcomer", "on"))
	assert.True(t, f.guild(t).Welcomer.Enabled)

	require.NoError(t, f.run(t, "welcomer", "off"))
	assert.False(t, f.guild(t).Welcomer.Enabled)
	assert.Equal(t, "hi", f.guild(t).Welcomer.Message)

	require.NoError(t, f.run(t, "welcomer"))
	assert.Equal(t, "Welcomer", f.gw.lastEmbed(t, "c1").Title)
}

func TestGreetHooks(t *testing.T) {
	ctx := context.Background()
	joined := &discordgo.GuildMemberAdd{Member: &discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u9", Username: "dana"}}}
	left := &discordgo.GuildMemberRemove{Member: &discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u9", Username: "dana"}}}

	setup := func(t *testing.T, kind storage.GreetingKind, channel string) *fixture {
		f := newFixture(t)
		require.NoError(t, f.state.GuildAdd(&discordgo.Guild{ID: "g1", Name: "Cafe"}))
		require.NoError(t, f.store.SetGreeting(ctx, "g1", kind, storage.Greeting{
			Enabled: true,
			Channel: &channel,
			Message: "{user} / {server} / {user}",
		}))
		return f
	}

	t.Run("welcomer sends", func(t *testing.T) {
		f := setup(t, storage.Welcomer, "42")
		NewGreeter(storage.Welcomer).Hooks().OnGuildMemberAdd(ctx, f.hookContext(), joined)
		assert.Equal(t, "dana / Cafe / {user}", f.gw.lastText(t, "42"))
	})

	t.Run("farewell sends", func(t *testing.T) {
		f := setup(t, storage.Farewell, "43")
		NewGreeter(storage.Farewell).Hooks().OnGuildMemberRemove(ctx, f.hookContext(), left)
		assert.Equal(t, "dana / Cafe / {user}", f.gw.lastText(t, "43"))
	})

	t.Run("failed send disables", func(t *testing.T) {
		f := setup(t, storage.Welcomer, "gone")
		f.gw.failFor["gone"] = true
		NewGreeter(storage.Welcomer).Hooks().OnGuildMemberAdd(ctx, f.hookContext(), joined)

		g := f.guild(t).Welcomer
		assert.False(t, g.Enabled)
		assert.Equal(t, "{user} / {server} / {user}", g.Message)
	})

	t.Run("disabled stays quiet", func(t *testing.T) {
		f := newFixture(t)
		NewGreeter(storage.Welcomer).Hooks().OnGuildMemberAdd(ctx, f.hookContext(), joined)
		assert.Empty(t, f.gw.sent)
	})

	t.Run("hooks match kind", func(t *testing.T) {
		assert.Nil(t, NewGreeter(storage.Welcomer).Hooks().OnGuildMemberRemove)
		assert.Nil(t, NewGreeter(storage.Farewell).Hooks().OnGuildMemberAdd)
	})
}

func TestIgnoreCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, "ignore", "add", "user", "<@!11>", "22"))
	assert.Equal(t, []string{"11", "22"}, f.guild(t).Ignored.Users)
	e := f.gw.lastEmbed(t, "c1")
	assert.Equal(t, "<@11> <@22>", e.Fields[0].Value)
	assert.Equal(t, "none", e.Fields[1].Value)

	require.NoError(t, f.run(t, "ignore", "remove", "users", "11"))
	assert.Equal(t, []string{"22"}, f.guild(t).Ignored.Users)
	e = f.gw.lastEmbed(t, "c1")
	assert.Equal(t, "none", e.Fields[0].Value)
	assert.Equal(t, "<@11>", e.Fields[1].Value)

	require.NoError(t, f.run(t, "ignore", "add", "channel", "<#33>"))
	assert.Equal(t, []string{"33"}, f.guild(t).Ignored.Channels)

	require.NoError(t, f.run(t, "ignore", "add", "role", "admins"))
	assert.Equal(t, "I don't understand `admins`.", f.gw.lastText(t, "c1"))
	assert.Empty(t, f.guild(t).Ignored.Roles)

	require.NoError(t, f.run(t, "ignore", "toggle", "role", "1"))
	assert.Contains(t, f.gw.lastText(t, "c1"), "Usage:")

	require.NoError(t, f.run(t, "ignore", "list"))
	e = f.gw.lastEmbed(t, "c1")
	assert.Equal(t, "<@22>", e.Fields[0].Value)
	assert.Equal(t, "none", e.Fields[1].Value)
	assert.Equal(t, "<#33>", e.Fields[2].Value)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123", "123", true},
		{"<@123>", "123", true},
		{"<@!123>", "123", true},
		{"<@&123>", "123", true},
		{"<#123>", "123", true},
		{"<:emoji:123>", "", false},
		{"<@>", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := parseID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatGreeting(t *testing.T) {
	assert.Equal(t, "Welcome, ann, to Cafe!", formatGreeting("Welcome, {user}, to {server}!", "ann", "Cafe"))
	assert.Equal(t, "no placeholders", formatGreeting("no placeholders", "ann", "Cafe"))
}
