package server

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/conneroisu/cmdform/internal/bridge"
)

// Entry is one registered command with its bridge.
type Entry struct {
	Name   string
	Short  string
	Bridge *bridge.Bridge
}

// Registry holds the commands exposed as web forms, in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*Entry
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register bridges cmd and adds it under its own name. Bridge construction
// failures (non-introspectable command, unsupported flag type) propagate,
// so a misconfigured command is rejected at registration time.
func (r *Registry) Register(cmd *cobra.Command, opts ...bridge.Option) error {
	b, err := bridge.New(cmd, opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	r.order = append(r.order, name)
	r.entries[name] = &Entry{
		Name:   name,
		Short:  cmd.Short,
		Bridge: b,
	}
	return nil
}

// Get returns the entry for a command name.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.entries[name])
	}
	return result
}
