package commands

import (
	"context"
	"strings"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

const defaultAFKMessage = "AFK"

type AFK struct{}

func (c *AFK) Name() string        { return "afk" }
func (c *AFK) Group() string       { return "Utility" }
func (c *AFK) Description() string { return "Marks you as away until your next message" }

func (c *AFK) Execute(ctx context.Context, ic *command.Context) error {
	message := strings.TrimSpace(strings.Join(ic.Args, " "))
	if message == "" {
		message = defaultAFKMessage
	}

	err := ic.Store.AddAFK(ctx, ic.Message.GuildID, storage.AFKEntry{
		ID:      ic.Message.Author.ID,
		Message: message,
	})
	if err != nil {
		return err
	}

	_, err = ic.SayText("I set your AFK: " + message)
	return err
}
