// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "guildbot",
	Short: "Prefix command bot for Discord guilds",
	Long: `guildbot connects to the Discord gateway and answers prefix commands.

Per-guild settings (prefix, theme, greetings, ignore lists, AFK status) are
kept in a local datastore file or in MongoDB, see STORAGE_DRIVER.

Run without arguments to start the bot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List built-in commands without connecting",
	Args:  cobra.NoArgs,
	RunE:  listCommands,
}

func init() {
	rootCmd.AddCommand(runCmd, commandsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("guildbot stopped")
	}
}
