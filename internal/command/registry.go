package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry holds loaded commands by name for the process lifetime.
type Registry struct {
	mu          sync.RWMutex
	commands    map[string]Command
	order       []string
	middlewares []Middleware
	disabled    map[string]struct{}
}

// NewRegistry returns an empty registry that wraps every loaded command in mws.
func NewRegistry(mws ...Middleware) *Registry {
	return &Registry{
		commands:    make(map[string]Command),
		middlewares: mws,
		disabled:    make(map[string]struct{}),
	}
}

// Disable marks manifest names to be skipped by Load.
func (r *Registry) Disable(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			r.disabled[n] = struct{}{}
		}
	}
}

// IsDraft reports whether a manifest name marks a draft command.
func IsDraft(name string) bool {
	return strings.HasPrefix(name, "#") || strings.HasPrefix(name, ".#")
}

// Load builds every non-draft, non-disabled entry and registers it under the
// entry name. Hooks are bound through em; a nil em skips hook binding. The
// first factory error aborts the load.
func (r *Registry) Load(entries []Entry, em Emitter, hc *HookContext) error {
	if hc != nil && hc.Registry == nil {
		hc.Registry = r
	}

	for _, e := range entries {
		if IsDraft(e.Name) {
			log.Debug().Str("command", e.Name).Msg("skipping draft command")
			continue
		}
		if r.isDisabled(e.Name) {
			log.Info().Str("command", e.Name).Msg("command disabled by configuration")
			continue
		}
		if e.New == nil {
			return fmt.Errorf("command %s has no factory", e.Name)
		}

		cmd, err := e.New()
		if err != nil {
			return fmt.Errorf("failed to load command %s: %w", e.Name, err)
		}
		if cmd == nil {
			return fmt.Errorf("factory for command %s returned nil", e.Name)
		}

		if hp, ok := cmd.(HookProvider); ok && em != nil {
			hooks := hp.Hooks()
			bindHooks(hooks, em, hc)
			for _, ev := range hooks.Events() {
				log.Debug().Str("command", e.Name).Stringer("event", ev).Msg("bound hook")
			}
		}

		if err := r.register(e.Name, Apply(cmd, r.middlewares...)); err != nil {
			return err
		}
		log.Info().Str("command", e.Name).Str("group", cmd.Group()).Msg("loaded command")
	}
	return nil
}

func (r *Registry) isDisabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.disabled[name]
	return ok
}

func (r *Registry) register(name string, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s registered twice", name)
	}
	r.commands[name] = cmd
	r.order = append(r.order, name)
	return nil
}

// Get looks a command up by its exact, case-sensitive name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns registered names in load order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns registered commands in load order.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
