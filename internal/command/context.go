package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/guildbot/internal/storage"
)

// AskTimeout bounds how long Ask waits for a reply.
const AskTimeout = 60 * time.Second

// NoResponseNotice is sent when an Ask times out.
const NoResponseNotice = "You didn't give a response!"

// ErrNoResponse is returned by Ask when nobody answered in time. The user
// has already been told.
var ErrNoResponse = errors.New("no response")

// Deps are the long-lived collaborators shared by every Context.
type Deps struct {
	Gateway  Gateway
	Awaiter  Awaiter
	State    *discordgo.State
	Store    storage.Store
	Registry *Registry

	// Latency reports the gateway heartbeat latency. Optional.
	Latency func() time.Duration
	// AskTimeout overrides the default Ask timeout when positive.
	AskTimeout time.Duration
}

// Context is built for a single command invocation.
type Context struct {
	Deps

	Message *discordgo.Message
	// Args are the space-separated tokens after the command name.
	Args []string
	// Content is the message content with the prefix removed.
	Content string
	Guild   *storage.GuildConfig
	// JustAFK is set when this message cleared the author's AFK status.
	JustAFK bool
}

// Say sends data to the channel the command was invoked in. Embeds without
// a color get the guild theme.
func (c *Context) Say(data *discordgo.MessageSend) (*discordgo.Message, error) {
	if c.Guild != nil {
		for _, e := range data.Embeds {
			if e != nil && e.Color == 0 {
				e.Color = c.Guild.Theme
			}
		}
	}

	msg, err := c.Gateway.ChannelMessageSendComplex(c.Message.ChannelID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// SayText sends a plain text message.
func (c *Context) SayText(content string) (*discordgo.Message, error) {
	return c.Say(&discordgo.MessageSend{Content: content})
}

// SayEmbed sends a single embed.
func (c *Context) SayEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.Say(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

// Ask sends data and returns the content of the invoker's next message in
// the same channel accepted by filter. A nil filter accepts anything.
func (c *Context) Ask(ctx context.Context, data *discordgo.MessageSend, filter func(*discordgo.Message) bool) (string, error) {
	reply, err := c.AskMessage(ctx, data, filter)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

// AskMessage is Ask returning the whole reply.
func (c *Context) AskMessage(ctx context.Context, data *discordgo.MessageSend, filter func(*discordgo.Message) bool) (*discordgo.Message, error) {
	authorID := ""
	if c.Message.Author != nil {
		authorID = c.Message.Author.ID
	}

	// Watch before sending so a fast reply is not missed.
	replies, stop := c.Awaiter.Watch(c.Message.ChannelID, func(m *discordgo.Message) bool {
		if m.Author == nil || m.Author.ID != authorID {
			return false
		}
		return filter == nil || filter(m)
	})
	defer stop()

	if _, err := c.Say(data); err != nil {
		return nil, err
	}

	timeout := c.AskTimeout
	if timeout <= 0 {
		timeout = AskTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		if _, err := c.SayText(NoResponseNotice); err != nil {
			return nil, fmt.Errorf("failed to send no-response notice: %w", err)
		}
		return nil, ErrNoResponse
	}
}
