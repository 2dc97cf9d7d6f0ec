// Package command defines prefix commands, their registry and the
// per-invocation context handed to them.
package command

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Command is a prefix command. Each one is built once by its Factory and
// shared by every invocation for the process lifetime.
type Command interface {
	Name() string
	Group() string
	Description() string
	Execute(ctx context.Context, c *Context) error
}

// PermissionProvider is implemented by commands that need channel permissions.
// Commands that do not implement it are open to everyone.
type PermissionProvider interface {
	UserPermissions() []int64
	BotPermissions() []int64
}

// HookProvider is implemented by commands that react to gateway events.
type HookProvider interface {
	Hooks() Hooks
}

// Factory builds a command instance.
type Factory func() (Command, error)

// Entry is one line of the command manifest.
type Entry struct {
	Name string
	New  Factory
}

// Gateway is the part of *discordgo.Session that commands and the router call.
type Gateway interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// Awaiter delivers follow-up messages. Watch registers interest in the next
// message in channelID accepted by match; the channel receives at most one
// message. stop must be called once the caller is no longer waiting.
type Awaiter interface {
	Watch(channelID string, match func(*discordgo.Message) bool) (replies <-chan *discordgo.Message, stop func())
}
