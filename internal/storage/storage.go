// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"time"
)

// Store persists one GuildConfig per guild. Get creates the default
// document on first access; every mutation touches only the named field.
type Store interface {
	Get(ctx context.Context, guildID string) (*GuildConfig, error)

	AddAFK(ctx context.Context, guildID string, entry AFKEntry) error
	// RemoveAFK reports whether userID had an entry. Of concurrent callers,
	// at most one sees true.
	RemoveAFK(ctx context.Context, guildID, userID string) (bool, error)

	SetGreeting(ctx context.Context, guildID string, kind GreetingKind, g Greeting) error
	DisableGreeting(ctx context.Context, guildID string, kind GreetingKind) error

	SetPrefix(ctx context.Context, guildID, prefix string) error
	SetTheme(ctx context.Context, guildID string, theme int) error
	SetIgnored(ctx context.Context, guildID string, kind IgnoreKind, id string, ignored bool) error

	Close(ctx context.Context) error
}

// Options selects and configures a backend.
type Options struct {
	Driver   string // "datastore", "mongo" or "memory"
	Path     string
	MongoURI string
	MongoDB  string
	Timeout  time.Duration
	Defaults Defaults
}

// Open connects the configured backend. Mongo connections are verified
// with a ping so that an unreachable server fails here, not on first use.
// The datastore backend saves in the background until ctx is done.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "datastore", "":
		return NewDatastore(ctx, opts.Path, opts.Defaults)
	case "mongo":
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		return NewMongo(ctx, opts.MongoURI, opts.MongoDB, opts.Defaults)
	case "memory":
		return NewMemory(opts.Defaults), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
