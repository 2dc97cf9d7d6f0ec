package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog/log"
)

// Datastore keeps guild documents in a JSON file, one key per guild id.
type Datastore struct {
	local
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

type datastoreDocs struct {
	ds *datastore.DataStore
}

func (d datastoreDocs) load(guildID string) (*GuildConfig, bool, error) {
	var cfg GuildConfig
	exists, err := d.ds.Get(guildID, &cfg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read guild %s: %w", guildID, err)
	}
	if !exists {
		return nil, false, nil
	}
	if cfg.GuildID == "" {
		cfg.GuildID = guildID
	}
	return &cfg, true, nil
}

func (d datastoreDocs) save(cfg *GuildConfig) error {
	if err := d.ds.Set(cfg.GuildID, cfg); err != nil {
		return fmt.Errorf("failed to write guild %s: %w", cfg.GuildID, err)
	}
	return nil
}

// NewDatastore opens (or creates) filePath. The periodic save loop lives
// until ctx is done or Close is called; Close always writes a final snapshot.
func NewDatastore(ctx context.Context, filePath string, d Defaults) (*Datastore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	logger := slog.New(slog.NewTextHandler(log.With().Str("component", "datastore").Logger(), nil))

	ds, err := datastore.New(ctx, filePath, datastore.WithLogger(logger))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open datastore %s: %w", filePath, err)
	}
	return &Datastore{
		local:  local{docs: datastoreDocs{ds: ds}, defaults: d},
		ds:     ds,
		cancel: cancel,
	}, nil
}

func (s *Datastore) Close(context.Context) error {
	s.cancel()
	return s.ds.Close()
}
