package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
	"github.com/keshon/guildbot/pkg/util"
)

var ignoreKinds = map[string]storage.IgnoreKind{
	"user":     storage.IgnoreUsers,
	"users":    storage.IgnoreUsers,
	"role":     storage.IgnoreRoles,
	"roles":    storage.IgnoreRoles,
	"channel":  storage.IgnoreChannels,
	"channels": storage.IgnoreChannels,
}

type Ignore struct{}

func (c *Ignore) Name() string  { return "ignore" }
func (c *Ignore) Group() string { return "Settings" }
func (c *Ignore) Description() string {
	return "Stops or resumes responding to users, roles or channels"
}

func (c *Ignore) UserPermissions() []int64 { return []int64{discordgo.PermissionManageServer} }
func (c *Ignore) BotPermissions() []int64 {
	return []int64{discordgo.PermissionSendMessages, discordgo.PermissionEmbedLinks}
}

func (c *Ignore) usage(ic *command.Context) error {
	_, err := ic.SayText(fmt.Sprintf("Usage: `%[1]signore <add|remove> <user|role|channel> <mentions or ids...>` or `%[1]signore list`", ic.Guild.Prefix))
	return err
}

func (c *Ignore) Execute(ctx context.Context, ic *command.Context) error {
	if len(ic.Args) == 0 || ic.Args[0] == "list" {
		return c.list(ic)
	}
	if len(ic.Args) < 3 {
		return c.usage(ic)
	}

	var ignored bool
	switch ic.Args[0] {
	case "add":
		ignored = true
	case "remove":
		ignored = false
	default:
		return c.usage(ic)
	}

	kind, ok := ignoreKinds[strings.ToLower(ic.Args[1])]
	if !ok {
		return c.usage(ic)
	}

	ids, invalid := parseIDs(ic.Args[2:])
	if len(invalid) > 0 {
		_, err := ic.SayText(fmt.Sprintf("I don't understand `%s`.", strings.Join(invalid, "`, `")))
		return err
	}
	if len(ids) == 0 {
		return c.usage(ic)
	}

	guildID := ic.Message.GuildID
	for _, id := range ids {
		if err := ic.Store.SetIgnored(ctx, guildID, kind, id, ignored); err != nil {
			return err
		}
	}

	after, err := ic.Store.Get(ctx, guildID)
	if err != nil {
		return err
	}
	delta := util.Diff(after.Ignored.List(kind), ic.Guild.Ignored.List(kind))

	_, err = ic.SayEmbed(&discordgo.MessageEmbed{
		Title: "Ignored " + string(kind),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Added", Value: mentionList(kind, delta.Added), Inline: true},
			{Name: "Removed", Value: mentionList(kind, delta.Removed), Inline: true},
		},
	})
	return err
}

func (c *Ignore) list(ic *command.Context) error {
	ig := ic.Guild.Ignored
	_, err := ic.SayEmbed(&discordgo.MessageEmbed{
		Title: "Ignored",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Users", Value: mentionList(storage.IgnoreUsers, ig.Users)},
			{Name: "Roles", Value: mentionList(storage.IgnoreRoles, ig.Roles)},
			{Name: "Channels", Value: mentionList(storage.IgnoreChannels, ig.Channels)},
		},
	})
	return err
}

func mentionList(kind storage.IgnoreKind, ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		switch kind {
		case storage.IgnoreRoles:
			out = append(out, "<@&"+id+">")
		case storage.IgnoreChannels:
			out = append(out, "<#"+id+">")
		default:
			out = append(out, "<@"+id+">")
		}
	}
	return strings.Join(out, " ")
}
