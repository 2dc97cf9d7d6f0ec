package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Collector hands incoming messages to goroutines waiting on a reply.
// Each watch receives at most one message.
type Collector struct {
	mu      sync.Mutex
	next    uint64
	waiters map[uint64]*waiter
}

type waiter struct {
	channelID string
	match     func(*discordgo.Message) bool
	replies   chan *discordgo.Message
}

func NewCollector() *Collector {
	return &Collector{waiters: make(map[uint64]*waiter)}
}

// Watch registers interest in the next message in channelID accepted by match.
func (c *Collector) Watch(channelID string, match func(*discordgo.Message) bool) (<-chan *discordgo.Message, func()) {
	w := &waiter{
		channelID: channelID,
		match:     match,
		replies:   make(chan *discordgo.Message, 1),
	}

	c.mu.Lock()
	id := c.next
	c.next++
	c.waiters[id] = w
	c.mu.Unlock()

	return w.replies, func() { c.remove(id) }
}

func (c *Collector) remove(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.waiters[id]; !ok {
		return false
	}
	delete(c.waiters, id)
	return true
}

// Dispatch offers m to every waiter on its channel. Match functions run
// outside the lock.
func (c *Collector) Dispatch(m *discordgo.Message) {
	c.mu.Lock()
	var candidates []uint64
	for id, w := range c.waiters {
		if w.channelID == m.ChannelID {
			candidates = append(candidates, id)
		}
	}
	snapshot := make(map[uint64]*waiter, len(candidates))
	for _, id := range candidates {
		snapshot[id] = c.waiters[id]
	}
	c.mu.Unlock()

	for id, w := range snapshot {
		if w.match != nil && !w.match(m) {
			continue
		}
		// Only the dispatcher that removes the waiter delivers.
		if c.remove(id) {
			w.replies <- m
		}
	}
}

// Len returns the number of pending watches.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
