package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Connected reports whether the gateway has sent READY at least once.
func (b *Bot) Connected() bool { return b.connected.Load() }

// OnConnect runs fn once, on the first READY after registration.
func (b *Bot) OnConnect(fn func(ctx context.Context)) {
	b.dg.AddHandlerOnce(func(_ *discordgo.Session, _ *discordgo.Ready) {
		fn(b.context())
	})
}

func (b *Bot) OnGuildMemberAdd(fn func(ctx context.Context, e *discordgo.GuildMemberAdd)) {
	b.dg.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
		fn(b.context(), e)
	})
}

func (b *Bot) OnGuildMemberRemove(fn func(ctx context.Context, e *discordgo.GuildMemberRemove)) {
	b.dg.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberRemove) {
		fn(b.context(), e)
	})
}
