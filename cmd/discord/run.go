package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/commands"
	"github.com/keshon/guildbot/internal/config"
	"github.com/keshon/guildbot/internal/discord"
	"github.com/keshon/guildbot/internal/logging"
	"github.com/keshon/guildbot/internal/storage"
	"github.com/keshon/guildbot/pkg/retry"
)

// runBot starts everything in order: config, logging, storage, commands,
// then the gateway. A failure at any stage stops before the next.
func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	for _, line := range cfg.Logo {
		log.Info().Msg(line)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	registry := command.NewRegistry(command.WithLogger())
	registry.Disable(cfg.DisabledCommands...)

	bot, err := discord.NewBot(cfg, store, registry)
	if err != nil {
		return err
	}
	if err := registry.Load(commands.Manifest(), bot, bot.HookContext()); err != nil {
		return fmt.Errorf("failed to load commands: %w", err)
	}
	log.Info().Int("commands", registry.Len()).Msg("commands loaded, connecting to Discord")

	return bot.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	opts := storage.Options{
		Driver:   cfg.StorageDriver,
		Path:     cfg.StoragePath,
		MongoURI: cfg.MongoURI,
		MongoDB:  cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
		Defaults: storage.Defaults{
			Prefix: cfg.DefaultPrefix,
			Theme:  int(cfg.DefaultTheme),
		},
	}

	var store storage.Store
	err := retry.Do(ctx, retry.Config{Attempts: cfg.StorageAttempts, Jitter: true, Name: "storage connect"}, func(ctx context.Context) error {
		s, err := storage.Open(ctx, opts)
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")
	return store, nil
}

func listCommands(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGROUP\tDESCRIPTION")
	for _, e := range commands.Manifest() {
		if command.IsDraft(e.Name) {
			continue
		}
		c, err := e.New()
		if err != nil {
			return fmt.Errorf("failed to build command %s: %w", e.Name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, c.Group(), c.Description())
	}
	return w.Flush()
}
