package commands

import (
	"context"
	"fmt"

	"github.com/keshon/guildbot/internal/command"
)

type Ping struct{}

func (c *Ping) Name() string        { return "ping" }
func (c *Ping) Group() string       { return "Utility" }
func (c *Ping) Description() string { return "Check bot latency" }

func (c *Ping) Execute(_ context.Context, ic *command.Context) error {
	if ic.Latency == nil {
		_, err := ic.SayText("Pong!")
		return err
	}
	_, err := ic.SayText(fmt.Sprintf("Pong! Latency: `%dms`", ic.Latency().Milliseconds()))
	return err
}
