// Package discord owns the gateway session and turns its events into
// command invocations and hooks.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/config"
	"github.com/keshon/guildbot/internal/storage"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

var (
	_ command.Gateway = (*discordgo.Session)(nil)
	_ command.Emitter = (*Bot)(nil)
	_ command.Awaiter = (*Collector)(nil)
)

// Bot is a Discord bot
type Bot struct {
	dg        *discordgo.Session
	store     storage.Store
	registry  *command.Registry
	router    *Router
	collector *Collector
	limiter   *Limiter

	connected atomic.Bool
	failures  chan error

	mu  sync.RWMutex
	ctx context.Context
}

// NewBot prepares a session without connecting it.
func NewBot(cfg *config.Config, store storage.Store, registry *command.Registry) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents

	b := &Bot{
		dg:        dg,
		store:     store,
		registry:  registry,
		collector: NewCollector(),
		limiter:   NewLimiter(cfg.CommandRate, cfg.CommandBurst),
		failures:  make(chan error, 1),
		ctx:       context.Background(),
	}
	b.router = NewRouter(b.deps(), b.limiter, b.selfID)

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	return b, nil
}

func (b *Bot) deps() command.Deps {
	return command.Deps{
		Gateway:  b.dg,
		Awaiter:  b.collector,
		State:    b.dg.State,
		Store:    b.store,
		Registry: b.registry,
		Latency:  b.dg.HeartbeatLatency,
	}
}

// HookContext is shared by every command hook.
func (b *Bot) HookContext() *command.HookContext {
	return &command.HookContext{
		Gateway:  b.dg,
		State:    b.dg.State,
		Store:    b.store,
		Registry: b.registry,
	}
}

func (b *Bot) selfID() string {
	if b.dg.State == nil || b.dg.State.User == nil {
		return ""
	}
	return b.dg.State.User.ID
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

func (b *Bot) setContext(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx = ctx
}

// Run connects to the gateway and blocks until ctx is done or a command
// fails with an unhandled error.
func (b *Bot) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	b.setContext(ctx)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer func() {
		if err := b.dg.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Discord session")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.limiter.RunPruner(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			log.Info().Msg("shutdown signal received, cleaning up")
			return nil
		case err := <-b.failures:
			return fmt.Errorf("unhandled command failure: %w", err)
		}
	})
	return g.Wait()
}

// fail reports an unhandled error to Run. Only the first one is kept.
func (b *Bot) fail(err error) {
	select {
	case b.failures <- err:
	default:
		log.Error().Err(err).Msg("unhandled command failure")
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Int("commands", b.registry.Len()).
		Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.collector.Dispatch(m.Message)

	err := b.router.Handle(b.context(), m.Message)
	switch {
	case err == nil:
	case errors.Is(err, command.ErrNoResponse):
		log.Debug().Str("guild", m.GuildID).Str("channel", m.ChannelID).Msg("prompt went unanswered")
	case errors.Is(err, context.Canceled):
	default:
		b.fail(err)
	}
}
