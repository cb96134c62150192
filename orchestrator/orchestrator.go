// Package orchestrator implements the Context Manager: the single place
// that owns the process-wide GCtx reference and mints per-request LCtx
// values, without ever stashing either in a package-global variable that
// handlers reach into implicitly. Callers hold the *Manager explicitly and
// pass it (or the GCtx/LCtx it produces) down the call chain.
package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/lctx"
)

// ErrAlreadyInitialized is returned by InitializeGlobalContext when a GCtx
// already exists.
var ErrAlreadyInitialized = errors.New("orchestrator: global context already initialized")

// Manager owns the lifecycle of the single GCtx for a running process and
// produces LCtx values for individual requests.
type Manager struct {
	mu   sync.RWMutex
	gctx *gctx.GCtx
}

// New creates an empty, uninitialized Manager.
func New() *Manager {
	return &Manager{}
}

// InitializeGlobalContext creates the GCtx. It is an error to call this
// twice without an intervening Shutdown.
func (m *Manager) InitializeGlobalContext(opts gctx.Options) (*gctx.GCtx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gctx != nil {
		return nil, ErrAlreadyInitialized
	}
	m.gctx = gctx.New(opts)
	return m.gctx, nil
}

// GetGlobalContext returns the current GCtx, or nil if uninitialized.
func (m *Manager) GetGlobalContext() *gctx.GCtx {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gctx
}

// CreateRequestContext mints a new LCtx for a single request.
func (m *Manager) CreateRequestContext(opts lctx.Options) *lctx.LCtx {
	return lctx.New(opts)
}

// CleanupRequestContext runs the LCtx's cleanup hooks. Always call this
// exactly once per request, regardless of how the request's handler exited.
func (m *Manager) CleanupRequestContext(ctx context.Context, l *lctx.LCtx) []error {
	return l.Cleanup(ctx)
}

// Shutdown runs the GCtx's shutdown hooks, if a GCtx exists, then clears the
// reference so a later InitializeGlobalContext call succeeds. Calling
// Shutdown with no GCtx initialized is a no-op.
func (m *Manager) Shutdown(ctx context.Context) []error {
	m.mu.Lock()
	g := m.gctx
	m.gctx = nil
	m.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Lifecycle().Shutdown(ctx)
}
