package loader

import (
	"context"
	"sync"
	"time"
)

// record is a Loader's bookkeeping for one registered module. Its mutex
// guards state/exports/err/usage and serializes concurrent init attempts
// for this module specifically — two goroutines racing to initialize the
// same module result in exactly one Init call.
type record struct {
	mu      sync.Mutex
	module  Module
	state   State
	exports any
	err     error
	usage   uint64
}

// Loader initializes a set of registered modules in dependency order,
// detecting cycles and missing dependencies up front, then exposes their
// exports and coordinates health checks and shutdown.
type Loader struct {
	mu            sync.RWMutex
	initTimeout   time.Duration
	allowCircular bool
	autoInit      bool
	records       map[string]*record
	order         []string // registration order, used for deterministic traversal
	initOrder     []string // order modules actually finished initializing in
}

// New creates an empty Loader configured by opts.
func New(opts Options) *Loader {
	return &Loader{
		initTimeout:   opts.InitTimeout,
		allowCircular: opts.AllowCircularDependencies,
		autoInit:      opts.AutoInit,
		records:       make(map[string]*record),
	}
}

// Register adds a module. It is an error to register the same module name
// twice. When the Loader was built with AutoInit, Register additionally
// initializes the module (and any of its already-registered, not-yet-
// initialized dependencies) synchronously before returning, using
// context.Background(). Use RegisterWithContext to supply a caller context
// for that same auto-init path.
func (l *Loader) Register(m Module) error {
	return l.RegisterWithContext(context.Background(), m)
}

// RegisterWithContext is Register, but — when the Loader was built with
// AutoInit — the supplied ctx bounds the synchronous init it triggers.
func (l *Loader) RegisterWithContext(ctx context.Context, m Module) error {
	l.mu.Lock()
	name := m.Name()
	if _, exists := l.records[name]; exists {
		l.mu.Unlock()
		return &DuplicateError{Name: name}
	}
	l.records[name] = &record{module: m, state: StateRegistered}
	l.order = append(l.order, name)
	autoInit := l.autoInit
	l.mu.Unlock()

	if autoInit {
		return l.ensureInitialized(ctx, name, nil)
	}
	return nil
}

// depsView is the Dependencies implementation handed to each module's Init,
// scoped to the enclosing Loader.
type depsView struct{ l *Loader }

func (d depsView) Get(name string) (any, bool) {
	return d.l.Get(name)
}

// Initialize computes a dependency-respecting order across all registered
// modules and initializes them one at a time in that order. It fails fast on
// the first cycle, missing dependency, init error, or init timeout.
func (l *Loader) Initialize(ctx context.Context) error {
	order, err := l.topoOrder()
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := l.initOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// topoOrder performs a depth-first traversal over declared dependencies,
// returning registered modules in an order where every module appears after
// all of its dependencies. Registration order breaks ties among modules with
// no dependency relationship, for determinism.
func (l *Loader) topoOrder() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(l.records))
	var result []string
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			if l.allowCircular {
				// Already on the stack: an earlier frame owns initializing
				// it. Stop recursing into this edge instead of failing.
				return nil
			}
			return &CycleError{Path: append(append([]string{}, path...), name)}
		}
		rec := l.records[name]
		color[name] = gray
		path = append(path, name)
		for _, dep := range rec.module.Dependencies() {
			if _, exists := l.records[dep]; !exists {
				return &MissingDependencyError{Module: name, Dependency: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		result = append(result, name)
		return nil
	}

	for _, name := range l.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// initOne initializes a single module if it isn't already initialized. Its
// record's mutex ensures that concurrent callers (Initialize running
// alongside GetAsync's lazy ensureInitialized path, say) never run Init twice for
// the same module.
func (l *Loader) initOne(ctx context.Context, name string) error {
	l.mu.RLock()
	rec := l.records[name]
	l.mu.RUnlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	switch rec.state {
	case StateInitialized:
		return nil
	case StateError:
		return &InitError{Name: name, Err: rec.err}
	}
	rec.state = StateInitializing

	initCtx := ctx
	var cancel context.CancelFunc
	if l.initTimeout > 0 {
		initCtx, cancel = context.WithTimeout(ctx, l.initTimeout)
		defer cancel()
	}

	type initResult struct {
		exports any
		err     error
	}
	done := make(chan initResult, 1)
	go func() {
		exports, err := rec.module.Init(initCtx, depsView{l})
		done <- initResult{exports, err}
	}()

	select {
	case <-initCtx.Done():
		err := &InitTimeoutError{Name: name}
		rec.state = StateError
		rec.err = err
		return err
	case res := <-done:
		if res.err != nil {
			wrapped := &InitError{Name: name, Err: res.err}
			rec.state = StateError
			rec.err = res.err
			return wrapped
		}
		rec.exports = res.exports
		rec.state = StateInitialized
		l.mu.Lock()
		l.initOrder = append(l.initOrder, name)
		l.mu.Unlock()
		return nil
	}
}

// ensureInitialized is the recursive lazy-init used by GetAsync and
// AutoInit registration: it initializes name's dependencies (depth-first,
// tracking the current recursion path) before initializing name itself.
// path holds the chain of module names already being initialized by
// enclosing calls on this call tree; a name reappearing there is a cycle,
// resolved per l.allowCircular exactly as topoOrder resolves one.
func (l *Loader) ensureInitialized(ctx context.Context, name string, path []string) error {
	l.mu.RLock()
	rec, ok := l.records[name]
	l.mu.RUnlock()
	if !ok {
		return &NotFoundError{Name: name}
	}

	for _, p := range path {
		if p == name {
			if l.allowCircular {
				return nil
			}
			return &CycleError{Path: append(append([]string{}, path...), name)}
		}
	}

	rec.mu.Lock()
	state, recErr := rec.state, rec.err
	rec.mu.Unlock()
	if state == StateInitialized {
		return nil
	}
	if state == StateError {
		return &InitError{Name: name, Err: recErr}
	}

	nextPath := append(append([]string{}, path...), name)
	for _, dep := range rec.module.Dependencies() {
		if err := l.ensureInitialized(ctx, dep, nextPath); err != nil {
			return err
		}
	}
	return l.initOne(ctx, name)
}

// Get returns the exports of an initialized module by name. This is the
// getSync lookup: it never initializes a module and never touches the
// usage counter, so it is safe to call from a hot request path after
// startup has finished. Use GetAsync for the lazy-initializing lookup.
func (l *Loader) Get(name string) (any, bool) {
	l.mu.RLock()
	rec, ok := l.records[name]
	l.mu.RUnlock()
	if !ok {
		return nil, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.state != StateInitialized {
		return nil, false
	}
	return rec.exports, true
}

// GetAsync returns the exports of name, lazy-initializing it (and its
// not-yet-initialized dependencies) if needed. It fails if the module is in
// the error state, and increments the module's usage counter on every
// successful lookup, matching the spec's async get(name, gctx) operation.
func (l *Loader) GetAsync(ctx context.Context, name string) (any, error) {
	if err := l.ensureInitialized(ctx, name, nil); err != nil {
		return nil, err
	}
	l.mu.RLock()
	rec, ok := l.records[name]
	l.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.state != StateInitialized {
		return nil, &InitError{Name: name, Err: rec.err}
	}
	rec.usage++
	return rec.exports, nil
}

// State returns a module's current lifecycle state.
func (l *Loader) State(name string) (State, bool) {
	l.mu.RLock()
	rec, ok := l.records[name]
	l.mu.RUnlock()
	if !ok {
		return "", false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.state, true
}

// HealthCheck runs HealthCheck on every initialized module and returns the
// per-module result (nil entry means healthy).
func (l *Loader) HealthCheck(ctx context.Context) map[string]error {
	l.mu.RLock()
	names := append([]string{}, l.order...)
	l.mu.RUnlock()

	out := make(map[string]error)
	for _, name := range names {
		l.mu.RLock()
		rec := l.records[name]
		l.mu.RUnlock()

		rec.mu.Lock()
		state := rec.state
		mod := rec.module
		rec.mu.Unlock()

		if state != StateInitialized {
			continue
		}
		out[name] = mod.HealthCheck(ctx)
	}
	return out
}

// Shutdown shuts down every initialized module in reverse initialization
// order, so a module is always shut down before its dependencies. Errors are
// collected, never short-circuiting the sweep.
func (l *Loader) Shutdown(ctx context.Context) []error {
	l.mu.RLock()
	names := append([]string{}, l.initOrder...)
	l.mu.RUnlock()

	var errs []error
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		l.mu.RLock()
		rec := l.records[name]
		l.mu.RUnlock()

		rec.mu.Lock()
		if rec.state != StateInitialized {
			rec.mu.Unlock()
			continue
		}
		rec.state = StateShuttingDown
		mod := rec.module
		rec.mu.Unlock()

		err := mod.Shutdown(ctx)

		rec.mu.Lock()
		if err != nil {
			errs = append(errs, &ShutdownError{Name: name, Err: err})
			rec.state = StateError
			rec.err = err
		} else {
			rec.state = StateShutDown
		}
		rec.mu.Unlock()
	}
	return errs
}

// ShutdownOne shuts down a single module by name. It is a no-op if the
// module was never initialized, and a no-op the second time it is called
// on an already shut-down module. It does not cascade to dependents or
// dependencies — callers that need ordering should use Shutdown.
func (l *Loader) ShutdownOne(ctx context.Context, name string) error {
	l.mu.RLock()
	rec, ok := l.records[name]
	l.mu.RUnlock()
	if !ok {
		return &NotFoundError{Name: name}
	}

	rec.mu.Lock()
	if rec.state != StateInitialized {
		rec.mu.Unlock()
		return nil
	}
	rec.state = StateShuttingDown
	mod := rec.module
	rec.mu.Unlock()

	err := mod.Shutdown(ctx)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if err != nil {
		rec.state = StateError
		rec.err = err
		return &ShutdownError{Name: name, Err: err}
	}
	rec.state = StateShutDown
	return nil
}

// ModuleStats reports one module's state and how many times GetAsync has
// successfully resolved it.
type ModuleStats struct {
	State State
	Usage uint64
}

// Stats reports every registered module's current state and usage count,
// plus totals by state and the aggregate usage counter across all modules.
type Stats struct {
	Modules    map[string]ModuleStats
	ByState    map[State]int
	TotalUsage uint64
}

// Stats returns a snapshot of every registered module's current state and
// usage counter.
func (l *Loader) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stats := Stats{
		Modules: make(map[string]ModuleStats, len(l.records)),
		ByState: make(map[State]int),
	}
	for name, rec := range l.records {
		rec.mu.Lock()
		ms := ModuleStats{State: rec.state, Usage: rec.usage}
		rec.mu.Unlock()
		stats.Modules[name] = ms
		stats.ByState[ms.State]++
		stats.TotalUsage += ms.Usage
	}
	return stats
}
