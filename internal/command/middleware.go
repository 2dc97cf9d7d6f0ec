package command

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Middleware wraps a command (logging, metrics, extra checks).
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Wrapped replaces Execute while delegating identity to the inner command.
// Inner stays reachable through Unwrap so optional interfaces
// (PermissionProvider, HookProvider) survive wrapping.
type Wrapped struct {
	Inner Command
	Run   func(ctx context.Context, c *Context) error
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Group() string       { return w.Inner.Group() }
func (w *Wrapped) Description() string { return w.Inner.Description() }

func (w *Wrapped) Execute(ctx context.Context, c *Context) error {
	if w.Run != nil {
		return w.Run(ctx, c)
	}
	return w.Inner.Execute(ctx, c)
}

func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs run instead of c.Execute.
func Wrap(c Command, run func(ctx context.Context, ic *Context) error) Command {
	return &Wrapped{Inner: c, Run: run}
}

// Root unwraps c until the underlying command is reached.
func Root(c Command) Command {
	for {
		u, ok := c.(interface{ Unwrap() Command })
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}

// WithLogger logs every execution with its outcome and duration.
func WithLogger() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(ctx context.Context, c *Context) error {
			start := time.Now()
			err := cmd.Execute(ctx, c)

			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			if m := c.Message; m != nil {
				ev = ev.Str("guild", m.GuildID).Str("channel", m.ChannelID)
				if m.Author != nil {
					ev = ev.Str("user", m.Author.ID)
				}
			}
			ev.Str("command", cmd.Name()).Dur("took", time.Since(start)).Msg("command executed")

			return err
		})
	}
}
