package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/guildbot/internal/command"
)

type Stats struct{}

func (c *Stats) Name() string        { return "stats" }
func (c *Stats) Group() string       { return "Utility" }
func (c *Stats) Description() string { return "Shows statistics" }

func (c *Stats) Hooks() command.Hooks {
	return command.Hooks{
		OnLoaded: func(_ context.Context, hc *command.HookContext) {
			servers, users := counts(hc.State)
			log.Info().Int("servers", servers).Int("users", users).Msg("stats available")
		},
	}
}

func (c *Stats) Execute(_ context.Context, ic *command.Context) error {
	servers, users := counts(ic.State)
	_, err := ic.SayEmbed(&discordgo.MessageEmbed{
		Title:       "Statistics",
		Description: fmt.Sprintf("Servers: %d\nUnique users: %d", servers, users),
	})
	return err
}

// counts returns the number of cached guilds and of distinct cached members.
func counts(state *discordgo.State) (servers, users int) {
	if state == nil {
		return 0, 0
	}
	state.RLock()
	defer state.RUnlock()

	seen := make(map[string]struct{})
	for _, g := range state.Guilds {
		for _, m := range g.Members {
			if m.User != nil {
				seen[m.User.ID] = struct{}{}
			}
		}
	}
	return len(state.Guilds), len(seen)
}
