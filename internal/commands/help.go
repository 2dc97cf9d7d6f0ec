package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/config"
	"github.com/keshon/guildbot/pkg/util"
)

// Discord limits embeds to 25 fields and messages to 10 embeds.
const (
	maxEmbedFields   = 25
	maxMessageEmbeds = 10
)

type Help struct{}

func (c *Help) Name() string        { return "help" }
func (c *Help) Group() string       { return "Utility" }
func (c *Help) Description() string { return "Lists commands, or describes one" }

func (c *Help) Execute(_ context.Context, ic *command.Context) error {
	if len(ic.Args) > 0 && ic.Args[0] != "" {
		return c.describe(ic, ic.Args[0])
	}

	for _, embeds := range helpMessages(helpFields(ic.Registry.All(), ic.Guild.Prefix), ic.Guild.Prefix) {
		if _, err := ic.Say(&discordgo.MessageSend{Embeds: embeds}); err != nil {
			return err
		}
	}
	return nil
}

// helpMessages packs fields into embeds and embeds into messages.
func helpMessages(fields []*discordgo.MessageEmbedField, prefix string) [][]*discordgo.MessageEmbed {
	chunks := util.Chunk(fields, maxEmbedFields)
	embeds := make([]*discordgo.MessageEmbed, 0, len(chunks))
	for i, chunk := range chunks {
		e := &discordgo.MessageEmbed{Fields: chunk}
		if i == 0 {
			e.Title = "Help"
			e.Description = fmt.Sprintf("Use `%shelp <command>` for details.", prefix)
		}
		embeds = append(embeds, e)
	}
	if len(embeds) == 0 {
		embeds = append(embeds, &discordgo.MessageEmbed{Title: "Help", Description: "No commands are loaded."})
	}
	return util.Chunk(embeds, maxMessageEmbeds)
}

func (c *Help) describe(ic *command.Context, name string) error {
	cmd, ok := ic.Registry.Get(name)
	if !ok {
		_, err := ic.SayText(fmt.Sprintf("There is no command called `%s`.", name))
		return err
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Group", Value: cmd.Group(), Inline: true},
	}
	user, bot := command.Requirements(cmd)
	if len(user) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "You need", Value: permissionList(user), Inline: true})
	}
	if len(bot) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "I need", Value: permissionList(bot), Inline: true})
	}

	_, err := ic.SayEmbed(&discordgo.MessageEmbed{
		Title:       ic.Guild.Prefix + name,
		Description: cmd.Description(),
		Fields:      fields,
	})
	return err
}

// helpFields builds one field per command, ordered by group weight, then
// group name, then command name.
func helpFields(cmds []command.Command, prefix string) []*discordgo.MessageEmbedField {
	sorted := append([]command.Command(nil), cmds...)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := sorted[i].Group(), sorted[j].Group()
		if wi, wj := config.GroupWeight(gi), config.GroupWeight(gj); wi != wj {
			return wi < wj
		}
		if gi != gj {
			return gi < gj
		}
		return sorted[i].Name() < sorted[j].Name()
	})

	fields := make([]*discordgo.MessageEmbedField, 0, len(sorted))
	for _, cmd := range sorted {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s%s (%s)", prefix, cmd.Name(), cmd.Group()),
			Value: cmd.Description(),
		})
	}
	return fields
}

func permissionList(perms []int64) string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, command.PermissionName(p))
	}
	return strings.Join(names, ", ")
}
