package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

// Greeter configures and sends the welcomer or farewell message.
type Greeter struct {
	kind storage.GreetingKind
}

func NewGreeter(kind storage.GreetingKind) *Greeter {
	return &Greeter{kind: kind}
}

func (c *Greeter) Name() string  { return string(c.kind) }
func (c *Greeter) Group() string { return "Settings" }

func (c *Greeter) Description() string {
	if c.kind == storage.Farewell {
		return "Configures the message sent when a member leaves"
	}
	return "Configures the message sent when a member joins"
}

func (c *Greeter) UserPermissions() []int64 { return []int64{discordgo.PermissionManageServer} }
func (c *Greeter) BotPermissions() []int64 {
	return []int64{discordgo.PermissionSendMessages, discordgo.PermissionEmbedLinks}
}

func (c *Greeter) Hooks() command.Hooks {
	if c.kind == storage.Farewell {
		return command.Hooks{
			OnGuildMemberRemove: func(ctx context.Context, hc *command.HookContext, e *discordgo.GuildMemberRemove) {
				greet(ctx, hc, storage.Farewell, e.GuildID, e.User)
			},
		}
	}
	return command.Hooks{
		OnGuildMemberAdd: func(ctx context.Context, hc *command.HookContext, e *discordgo.GuildMemberAdd) {
			greet(ctx, hc, storage.Welcomer, e.GuildID, e.User)
		},
	}
}

func (c *Greeter) Execute(ctx context.Context, ic *command.Context) error {
	sub := ""
	if len(ic.Args) > 0 {
		sub = strings.ToLower(ic.Args[0])
	}

	switch sub {
	case "on":
		return c.enable(ctx, ic)
	case "off":
		if err := ic.Store.DisableGreeting(ctx, ic.Message.GuildID, c.kind); err != nil {
			return err
		}
		_, err := ic.SayText(fmt.Sprintf("The %s is now off.", c.kind))
		return err
	case "setup":
		return c.setup(ctx, ic)
	default:
		return c.show(ic)
	}
}

func (c *Greeter) enable(ctx context.Context, ic *command.Context) error {
	g := ic.Guild.Greeting(c.kind)
	if g.Channel == nil {
		_, err := ic.SayText(fmt.Sprintf("Run `%s%s setup` first.", ic.Guild.Prefix, c.kind))
		return err
	}
	g.Enabled = true
	if err := ic.Store.SetGreeting(ctx, ic.Message.GuildID, c.kind, g); err != nil {
		return err
	}
	_, err := ic.SayText(fmt.Sprintf("The %s is now on.", c.kind))
	return err
}

func (c *Greeter) setup(ctx context.Context, ic *command.Context) error {
	reply, err := ic.AskMessage(ctx, &discordgo.MessageSend{
		Content: "Which channel should I use? Mention it.",
	}, func(m *discordgo.Message) bool {
		_, ok := parseChannel(m.Content)
		return ok
	})
	if err != nil {
		return err
	}
	channelID, _ := parseChannel(reply.Content)

	message, err := ic.Ask(ctx, &discordgo.MessageSend{
		Content: "What should I say? `{user}` and `{server}` are replaced with the member and server names.",
	}, func(m *discordgo.Message) bool {
		return strings.TrimSpace(m.Content) != ""
	})
	if err != nil {
		return err
	}

	err = ic.Store.SetGreeting(ctx, ic.Message.GuildID, c.kind, storage.Greeting{
		Enabled: true,
		Channel: &channelID,
		Message: message,
	})
	if err != nil {
		return err
	}
	_, err = ic.SayText(fmt.Sprintf("The %s is set up in <#%s>.", c.kind, channelID))
	return err
}

func (c *Greeter) show(ic *command.Context) error {
	g := ic.Guild.Greeting(c.kind)
	status, channel := "off", "not set"
	if g.Enabled {
		status = "on"
	}
	if g.Channel != nil {
		channel = "<#" + *g.Channel + ">"
	}

	_, err := ic.SayEmbed(&discordgo.MessageEmbed{
		Title: strings.ToUpper(string(c.kind[:1])) + string(c.kind[1:]),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: status, Inline: true},
			{Name: "Channel", Value: channel, Inline: true},
			{Name: "Message", Value: g.Message},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s%s on | off | setup", ic.Guild.Prefix, c.kind),
		},
	})
	return err
}

// parseChannel extracts the id from the first token of a channel mention.
func parseChannel(content string) (string, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "<#") {
		return "", false
	}
	return parseID(fields[0])
}

// formatGreeting fills the first {user} and {server} placeholders.
func formatGreeting(tmpl, user, server string) string {
	s := strings.Replace(tmpl, "{user}", user, 1)
	return strings.Replace(s, "{server}", server, 1)
}

// greet sends the configured greeting for a member event. A missing channel
// or a rejected send disables the feature for the guild.
func greet(ctx context.Context, hc *command.HookContext, kind storage.GreetingKind, guildID string, user *discordgo.User) {
	if user == nil {
		return
	}
	cfg, err := hc.Store.Get(ctx, guildID)
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Str("greeting", string(kind)).Msg("failed to load guild config")
		return
	}
	g := cfg.Greeting(kind)
	if !g.Enabled {
		return
	}

	if g.Channel == nil || *g.Channel == "" {
		disableGreeting(ctx, hc, kind, guildID, fmt.Errorf("no channel configured"))
		return
	}

	server := guildID
	if hc.State != nil {
		if guild, err := hc.State.Guild(guildID); err == nil {
			server = guild.Name
		}
	}

	_, err = hc.Gateway.ChannelMessageSendComplex(*g.Channel, &discordgo.MessageSend{
		Content: formatGreeting(g.Message, user.Username, server),
	})
	if err != nil {
		disableGreeting(ctx, hc, kind, guildID, err)
	}
}

func disableGreeting(ctx context.Context, hc *command.HookContext, kind storage.GreetingKind, guildID string, cause error) {
	log.Warn().Err(cause).Str("guild", guildID).Str("greeting", string(kind)).Msg("greeting channel is unusable, disabling")
	if err := hc.Store.DisableGreeting(ctx, guildID, kind); err != nil {
		log.Error().Err(err).Str("guild", guildID).Str("greeting", string(kind)).Msg("failed to disable greeting")
	}
}
