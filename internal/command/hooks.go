package command

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/storage"
)

// Event enumerates the lifecycle events a command can hook.
type Event int

const (
	EventLoaded Event = iota
	EventGuildMemberAdd
	EventGuildMemberRemove
)

func (e Event) String() string {
	switch e {
	case EventLoaded:
		return "loaded"
	case EventGuildMemberAdd:
		return "guildMemberAdd"
	case EventGuildMemberRemove:
		return "guildMemberRemove"
	}
	return "unknown"
}

// HookContext is shared by every hook of every command.
type HookContext struct {
	Gateway  Gateway
	State    *discordgo.State
	Store    storage.Store
	Registry *Registry
}

// Hooks lists a command's event handlers. Nil fields are not subscribed.
type Hooks struct {
	// OnLoaded runs once: immediately if the gateway is already connected,
	// otherwise on the first successful connection.
	OnLoaded            func(ctx context.Context, hc *HookContext)
	OnGuildMemberAdd    func(ctx context.Context, hc *HookContext, e *discordgo.GuildMemberAdd)
	OnGuildMemberRemove func(ctx context.Context, hc *HookContext, e *discordgo.GuildMemberRemove)
}

// Events returns the events h subscribes to.
func (h Hooks) Events() []Event {
	var evs []Event
	if h.OnLoaded != nil {
		evs = append(evs, EventLoaded)
	}
	if h.OnGuildMemberAdd != nil {
		evs = append(evs, EventGuildMemberAdd)
	}
	if h.OnGuildMemberRemove != nil {
		evs = append(evs, EventGuildMemberRemove)
	}
	return evs
}

// Emitter is the typed subscription API of the gateway connection.
type Emitter interface {
	Connected() bool
	OnConnect(fn func(ctx context.Context))
	OnGuildMemberAdd(fn func(ctx context.Context, e *discordgo.GuildMemberAdd))
	OnGuildMemberRemove(fn func(ctx context.Context, e *discordgo.GuildMemberRemove))
}

func bindHooks(h Hooks, em Emitter, hc *HookContext) {
	if h.OnLoaded != nil {
		loaded := h.OnLoaded
		if em.Connected() {
			loaded(context.Background(), hc)
		} else {
			em.OnConnect(func(ctx context.Context) { loaded(ctx, hc) })
		}
	}
	if h.OnGuildMemberAdd != nil {
		fn := h.OnGuildMemberAdd
		em.OnGuildMemberAdd(func(ctx context.Context, e *discordgo.GuildMemberAdd) { fn(ctx, hc, e) })
	}
	if h.OnGuildMemberRemove != nil {
		fn := h.OnGuildMemberRemove
		em.OnGuildMemberRemove(func(ctx context.Context, e *discordgo.GuildMemberRemove) { fn(ctx, hc, e) })
	}
}
