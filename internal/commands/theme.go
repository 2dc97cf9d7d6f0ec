package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/pkg/util"
)

type Theme struct{}

func (c *Theme) Name() string        { return "theme" }
func (c *Theme) Group() string       { return "Settings" }
func (c *Theme) Description() string { return "Shows or changes the embed color" }

func (c *Theme) UserPermissions() []int64 { return []int64{discordgo.PermissionManageServer} }
func (c *Theme) BotPermissions() []int64 {
	return []int64{discordgo.PermissionSendMessages, discordgo.PermissionEmbedLinks}
}

func (c *Theme) Execute(ctx context.Context, ic *command.Context) error {
	if len(ic.Args) == 0 || ic.Args[0] == "" {
		_, err := ic.SayEmbed(&discordgo.MessageEmbed{
			Title:       "Theme",
			Description: fmt.Sprintf("The current theme is `%s`", util.FormatColor(ic.Guild.Theme)),
		})
		return err
	}

	color, err := util.ParseColor(ic.Args[0])
	if err != nil {
		_, err = ic.SayText(fmt.Sprintf("`%s` is not a color. Try something like `#b01e66`.", ic.Args[0]))
		return err
	}
	// Embeds with color 0 are drawn without a color bar.
	if color == 0 {
		_, err = ic.SayText("`#000000` shows as no color on Discord. Try `#000001` for black.")
		return err
	}

	if err := ic.Store.SetTheme(ctx, ic.Message.GuildID, color); err != nil {
		return err
	}
	_, err = ic.SayEmbed(&discordgo.MessageEmbed{
		Title:       "Theme",
		Description: fmt.Sprintf("Theme set to `%s`", util.FormatColor(color)),
		Color:       color,
	})
	return err
}
