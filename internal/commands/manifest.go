// Package commands holds the built-in prefix commands.
package commands

import (
	"github.com/keshon/guildbot/internal/command"
	"github.com/keshon/guildbot/internal/storage"
)

// Manifest lists every built-in command in load order. Names starting with
// "#" or ".#" are drafts and are never loaded.
func Manifest() []command.Entry {
	return []command.Entry{
		{Name: "stats", New: newCommand(&Stats{})},
		{Name: "help", New: newCommand(&Help{})},
		{Name: "ping", New: newCommand(&Ping{})},
		{Name: "afk", New: newCommand(&AFK{})},
		{Name: "prefix", New: newCommand(&Prefix{})},
		{Name: "theme", New: newCommand(&Theme{})},
		{Name: "welcomer", New: newCommand(NewGreeter(storage.Welcomer))},
		{Name: "farewell", New: newCommand(NewGreeter(storage.Farewell))},
		{Name: "ignore", New: newCommand(&Ignore{})},
	}
}

func newCommand(cmd command.Command) command.Factory {
	return func() (command.Command, error) { return cmd, nil }
}
