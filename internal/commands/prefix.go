package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/command"
)

type Prefix struct{}

func (c *Prefix) Name() string        { return "prefix" }
func (c *Prefix) Group() string       { return "Settings" }
func (c *Prefix) Description() string { return "Shows or changes the command prefix" }

func (c *Prefix) UserPermissions() []int64 { return []int64{discordgo.PermissionManageServer} }
func (c *Prefix) BotPermissions() []int64  { return []int64{discordgo.PermissionSendMessages} }

func (c *Prefix) Execute(ctx context.Context, ic *command.Context) error {
	// Prefixes may contain spaces.
	prefix := strings.Join(ic.Args, " ")
	if strings.TrimSpace(prefix) == "" {
		_, err := ic.SayText(fmt.Sprintf("The current prefix is `%s`", ic.Guild.Prefix))
		return err
	}

	if err := ic.Store.SetPrefix(ctx, ic.Message.GuildID, prefix); err != nil {
		return err
	}
	_, err := ic.SayText(fmt.Sprintf("Prefix set to `%s`", prefix))
	return err
}
