package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

const permissionsErrorTitle = ":x: Permissions Error"

// Router turns guild messages into command invocations.
type Router struct {
	deps    command.Deps
	limiter *Limiter
	selfID  func() string
}

// NewRouter returns a router. selfID reports the bot's own user id and is
// used to resolve the bot's channel permissions. limiter may be nil.
func NewRouter(deps command.Deps, limiter *Limiter, selfID func() string) *Router {
	return &Router{deps: deps, limiter: limiter, selfID: selfID}
}

// Handle runs the message pipeline. Each step either stops silently, stops
// after replying, or continues. The returned error is the command's own
// failure or a send failure during AFK handling.
func (r *Router) Handle(ctx context.Context, m *discordgo.Message) error {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return nil
	}

	guild, err := r.deps.Store.Get(ctx, m.GuildID)
	if err != nil {
		log.Error().Err(err).Str("guild", m.GuildID).Msg("failed to load guild config")
		return nil
	}

	justAFK, err := r.handleAFK(ctx, m, guild)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(m.Content, guild.Prefix) {
		return nil
	}

	var roles []string
	if m.Member != nil {
		roles = m.Member.Roles
	}
	if guild.Ignored.Matches(m.Author.ID, roles, m.ChannelID) {
		return nil
	}

	content := m.Content[len(guild.Prefix):]
	args := strings.Split(content, " ")
	name := args[0]

	cmd, ok := r.deps.Registry.Get(name)
	if !ok {
		return nil
	}

	if r.limiter != nil && !r.limiter.Allow(m.GuildID, m.Author.ID) {
		log.Debug().Str("guild", m.GuildID).Str("user", m.Author.ID).Str("command", name).Msg("rate limited")
		return nil
	}

	allowed, err := r.checkPermissions(cmd, m)
	if err != nil || !allowed {
		return err
	}

	log.Debug().Str("guild", m.GuildID).Str("command", name).Msg("executing command")
	return cmd.Execute(ctx, &command.Context{
		Deps:    r.deps,
		Message: m,
		Args:    args[1:],
		Content: content,
		Guild:   guild,
		JustAFK: justAFK,
	})
}

// handleAFK welcomes back an author who was AFK and tells the channel about
// mentioned members who are AFK.
func (r *Router) handleAFK(ctx context.Context, m *discordgo.Message, guild *storage.GuildConfig) (bool, error) {
	justAFK := false
	for _, afk := range guild.AFK {
		if afk.ID == m.Author.ID {
			// Another message from the same author may have cleared it first.
			removed, err := r.deps.Store.RemoveAFK(ctx, m.GuildID, m.Author.ID)
			if err != nil {
				return false, fmt.Errorf("failed to clear AFK status: %w", err)
			}
			if !removed {
				continue
			}
			if err := r.send(m.ChannelID, &discordgo.MessageSend{
				Content: fmt.Sprintf("Welcome back, <@%s>!", m.Author.ID),
			}); err != nil {
				return false, err
			}
			justAFK = true
			continue
		}

		for _, mention := range m.Mentions {
			if mention.ID != afk.ID {
				continue
			}
			if err := r.send(m.ChannelID, &discordgo.MessageSend{
				Content: fmt.Sprintf("%s is currently AFK: %s", mention.Username, afk.Message),
			}); err != nil {
				return false, err
			}
		}
	}
	return justAFK, nil
}

// checkPermissions resolves channel permissions for the author and the bot
// and replies with what is missing.
func (r *Router) checkPermissions(cmd command.Command, m *discordgo.Message) (bool, error) {
	user, bot := command.Requirements(cmd)
	if len(user) == 0 && len(bot) == 0 {
		return true, nil
	}

	var userPerms, botPerms int64
	var g errgroup.Group
	g.Go(func() error {
		p, err := r.deps.Gateway.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			return fmt.Errorf("failed to get user permissions: %w", err)
		}
		userPerms = p
		return nil
	})
	g.Go(func() error {
		p, err := r.deps.Gateway.UserChannelPermissions(r.selfID(), m.ChannelID)
		if err != nil {
			return fmt.Errorf("failed to get bot permissions: %w", err)
		}
		botPerms = p
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("guild", m.GuildID).Str("channel", m.ChannelID).Msg("permission check failed")
		return false, nil
	}

	missing := command.CheckPermissions(cmd, userPerms, botPerms)
	if missing.OK() {
		return true, nil
	}

	return false, r.send(m.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       permissionsErrorTitle,
			Description: missing.Description(),
		}},
	})
}

func (r *Router) send(channelID string, data *discordgo.MessageSend) error {
	if _, err := r.deps.Gateway.ChannelMessageSendComplex(channelID, data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
