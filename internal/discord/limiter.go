package discord

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Limiter throttles command invocations per guild member.
type Limiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	idle  time.Duration
	users map[string]*memberLimiter
	now   func() time.Time
}

type memberLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter allows perSecond commands per member with the given burst.
// A non-positive perSecond disables limiting.
func NewLimiter(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit: limit,
		burst: burst,
		idle:  10 * time.Minute,
		users: make(map[string]*memberLimiter),
		now:   time.Now,
	}
}

// Allow reports whether the member may run a command now.
func (l *Limiter) Allow(guildID, userID string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := guildID + ":" + userID
	ml, ok := l.users[key]
	if !ok {
		ml = &memberLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.users[key] = ml
	}
	ml.seen = now
	return ml.lim.AllowN(now, 1)
}

// Prune drops members idle for longer than the idle window and returns how
// many were dropped.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	n := 0
	for key, ml := range l.users {
		if ml.seen.Before(cutoff) {
			delete(l.users, key)
			n++
		}
	}
	return n
}

// RunPruner prunes every interval until ctx is done.
func (l *Limiter) RunPruner(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Prune(); n > 0 {
				log.Debug().Int("members", n).Msg("pruned idle rate limiters")
			}
		}
	}
}

// Len returns the number of tracked members.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
