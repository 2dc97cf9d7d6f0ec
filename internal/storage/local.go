package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// documents is what an in-process backend persists through.
type documents interface {
	load(guildID string) (*GuildConfig, bool, error)
	save(cfg *GuildConfig) error
}

// local implements Store over documents, serializing every
// read-modify-write so that concurrent handlers never lose updates.
type local struct {
	mu       sync.Mutex
	docs     documents
	defaults Defaults
}

// getOrCreateLocked returns the stored document, persisting the default one first if absent.
func (s *local) getOrCreateLocked(guildID string) (*GuildConfig, error) {
	cfg, ok, err := s.docs.load(guildID)
	if err != nil {
		return nil, err
	}
	if ok {
		cfg.normalize()
		return cfg, nil
	}

	cfg = NewGuildConfig(guildID, s.defaults)
	if err := s.docs.save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *local) Get(_ context.Context, guildID string) (*GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.getOrCreateLocked(guildID)
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

func (s *local) update(guildID string, fn func(cfg *GuildConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.getOrCreateLocked(guildID)
	if err != nil {
		return err
	}
	fn(cfg)
	return s.docs.save(cfg)
}

func (s *local) AddAFK(_ context.Context, guildID string, entry AFKEntry) error {
	return s.update(guildID, func(cfg *GuildConfig) {
		for i := range cfg.AFK {
			if cfg.AFK[i].ID == entry.ID {
				cfg.AFK[i].Message = entry.Message
				return
			}
		}
		cfg.AFK = append(cfg.AFK, entry)
	})
}

func (s *local) RemoveAFK(_ context.Context, guildID, userID string) (bool, error) {
	removed := false
	err := s.update(guildID, func(cfg *GuildConfig) {
		n := len(cfg.AFK)
		cfg.AFK = slices.DeleteFunc(cfg.AFK, func(e AFKEntry) bool { return e.ID == userID })
		removed = len(cfg.AFK) < n
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *local) SetGreeting(_ context.Context, guildID string, kind GreetingKind, g Greeting) error {
	return s.update(guildID, func(cfg *GuildConfig) {
		g.Channel = cloneString(g.Channel)
		cfg.setGreeting(kind, g)
	})
}

func (s *local) DisableGreeting(_ context.Context, guildID string, kind GreetingKind) error {
	return s.update(guildID, func(cfg *GuildConfig) {
		g := cfg.Greeting(kind)
		g.Enabled = false
		cfg.setGreeting(kind, g)
	})
}

func (s *local) SetPrefix(_ context.Context, guildID, prefix string) error {
	return s.update(guildID, func(cfg *GuildConfig) { cfg.Prefix = prefix })
}

func (s *local) SetTheme(_ context.Context, guildID string, theme int) error {
	return s.update(guildID, func(cfg *GuildConfig) { cfg.Theme = theme })
}

func (s *local) SetIgnored(_ context.Context, guildID string, kind IgnoreKind, id string, ignored bool) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown ignore kind %q", kind)
	}
	return s.update(guildID, func(cfg *GuildConfig) {
		ids := cfg.Ignored.List(kind)
		has := slices.Contains(ids, id)
		switch {
		case ignored && !has:
			ids = append(ids, id)
		case !ignored && has:
			ids = slices.DeleteFunc(ids, func(v string) bool { return v == id })
		default:
			return
		}
		cfg.Ignored.set(kind, ids)
	})
}
