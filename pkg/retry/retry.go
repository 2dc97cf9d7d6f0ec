// Package retry runs an operation with exponential backoff.
//
//	err := retry.Do(ctx, retry.Config{Attempts: 3}, func(ctx context.Context) error {
//	    return connect(ctx)
//	})
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// Config configures Do. Zero fields take the defaults below.
type Config struct {
	Attempts     int           // total attempts, default 3
	InitialDelay time.Duration // default 500ms
	MaxDelay     time.Duration // default 10s
	Multiplier   float64       // default 2
	Jitter       bool          // add up to 25% random delay
	// Name labels log lines.
	Name string
}

func (c Config) withDefaults() Config {
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2
	}
	if c.Name == "" {
		c.Name = "operation"
	}
	return c
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, ctx ends or the
// attempts run out. The last error is returned wrapped.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	cfg = cfg.withDefaults()
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			if attempt > 1 {
				log.Info().Str("op", cfg.Name).Int("attempt", attempt).Msg("succeeded after retry")
			}
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == cfg.Attempts {
			break
		}

		wait := delay
		if cfg.Jitter && wait >= 4 {
			wait += time.Duration(rand.Int64N(int64(wait / 4)))
		}
		log.Warn().Err(err).Str("op", cfg.Name).Int("attempt", attempt).Dur("retry_in", wait).Msg("attempt failed")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}
	return fmt.Errorf("%s failed after %d attempts: %w", cfg.Name, cfg.Attempts, err)
}
