// Package gctx implements the process-wide Global Context: the container
// for loaded modules, configuration, and shared mutable state that the
// orchestrator hands to every handler invocation.
package gctx

import (
	"fmt"
	"sync"
)

// GCtx is the process-wide container described in the data model. It is an
// explicit value passed into handlers by the orchestrator, never installed
// as process-global mutable state (see the runtime's singleton design note).
type GCtx struct {
	mu      sync.RWMutex
	modules map[string]any
	config  map[string]any
	state   map[string]any

	lifecycle *Lifecycle
}

// Options seeds a new GCtx's configuration and state maps.
type Options struct {
	Config map[string]any
	State  map[string]any
}

// New creates an empty GCtx, optionally seeded from Options. Double
// initialization is the orchestrator's concern (see the orchestrator
// package), not this constructor's — New always succeeds.
func New(opts Options) *GCtx {
	cfg := make(map[string]any, len(opts.Config))
	for k, v := range opts.Config {
		cfg[k] = v
	}
	st := make(map[string]any, len(opts.State))
	for k, v := range opts.State {
		st[k] = v
	}
	return &GCtx{
		modules:   make(map[string]any),
		config:    cfg,
		state:     st,
		lifecycle: newLifecycle(),
	}
}

// RegisterModule inserts exports into the modules map under name. It is an
// error to register the same name twice.
func (g *GCtx) RegisterModule(name string, exports any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.modules[name]; exists {
		return fmt.Errorf("gctx: module %q already registered", name)
	}
	g.modules[name] = exports
	return nil
}

// GetModule returns the exports registered under name, and whether it was
// found.
func (g *GCtx) GetModule(name string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.modules[name]
	return v, ok
}

// GetConfig returns a configuration value by key.
func (g *GCtx) GetConfig(key string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.config[key]
	return v, ok
}

// SetConfig sets a configuration value. Config is shared mutable state;
// callers writing after startup are responsible for their own synchronization
// discipline beyond the map-level locking this method provides.
func (g *GCtx) SetConfig(key string, value any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config[key] = value
}

// GetState returns a shared state value by key.
func (g *GCtx) GetState(key string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.state[key]
	return v, ok
}

// SetState sets a shared state value.
func (g *GCtx) SetState(key string, value any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state[key] = value
}

// Lifecycle returns the shutdown-hook facade for this GCtx.
func (g *GCtx) Lifecycle() *Lifecycle { return g.lifecycle }
