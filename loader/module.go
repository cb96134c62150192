// Package loader implements the dependency-ordered module loader: capability
// modules are registered with declared dependencies, then initialized in an
// order that respects those dependencies, with cycle detection, per-module
// init timeouts, and a small state machine per module.
package loader

import (
	"context"
	"time"
)

// State is a module's position in its lifecycle state machine. Transitions
// only move forward except into StateError, which is absorbing: once a
// module errors it never leaves that state.
type State string

const (
	StateRegistered    State = "registered"
	StateInitializing  State = "initializing"
	StateInitialized   State = "initialized"
	StateShuttingDown  State = "shutting_down"
	StateShutDown      State = "shut_down"
	StateError         State = "error"
)

// Module is the capability contract every loadable module implements. Init
// receives the GCtx-facing dependency accessor so it can look up modules it
// declared dependencies on; it returns the value this module exports for
// other modules (and handlers) to consume.
type Module interface {
	// Name uniquely identifies this module within a Loader.
	Name() string
	// Dependencies lists module names that must be initialized before this
	// one. A name absent from the loader at Initialize time is an error.
	Dependencies() []string
	// Init runs the module's startup logic and returns its exports, an
	// arbitrary value (often a struct of handles/clients) later modules and
	// handlers can retrieve by name.
	Init(ctx context.Context, deps Dependencies) (any, error)
	// HealthCheck reports whether the module is currently healthy. Called
	// only after Init has succeeded.
	HealthCheck(ctx context.Context) error
	// Shutdown releases the module's resources. Called in reverse
	// dependency order.
	Shutdown(ctx context.Context) error
}

// Dependencies is the read-only view of already-initialized modules' exports
// that a Module's Init method receives.
type Dependencies interface {
	// Get returns the exports of an already-initialized dependency module.
	Get(name string) (any, bool)
}

// Options configures a Loader.
type Options struct {
	// InitTimeout bounds each module's Init call. Zero means no timeout.
	InitTimeout time.Duration
	// AllowCircularDependencies, when true, lets a dependency cycle resolve
	// instead of failing: a module reappearing on the current recursion
	// stack is treated as already being handled by an earlier frame rather
	// than as an error. Default false.
	AllowCircularDependencies bool
	// AutoInit, when true, makes Register synchronously initialize the
	// module (and any of its already-registered dependencies not yet
	// initialized) before returning. Default false. If a later Initialize
	// or lazy GetAsync call reaches an already-initialized module, that is
	// a no-op — the first path to reach initialized wins.
	AutoInit bool
}
