package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/krishnapaul242/gati/engine"
	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/loader"
	"github.com/krishnapaul242/gati/orchestrator"
	"github.com/krishnapaul242/gati/route"
)

// Options configures a new Gati facade.
type Options struct {
	// ModuleInitTimeout bounds each registered module's Init call.
	ModuleInitTimeout time.Duration
	// AllowCircularDependencies permits a module dependency cycle to
	// resolve instead of failing Initialize. Default false.
	AllowCircularDependencies bool
	// AutoInit makes RegisterModule synchronously initialize each module
	// (and its already-registered dependencies) as it is registered,
	// instead of waiting for Initialize. Default false.
	AutoInit bool
	// RequestIDHeader names the inbound header an ingress client may use to
	// propagate its own request id.
	RequestIDHeader string
	// RouteOptions controls path normalization and matching. Zero value
	// falls back to route.DefaultOptions().
	RouteOptions *route.Options
	// Logger is used by the engine and by the facade's own diagnostics. A
	// JSON slog.Logger over stdout is used when nil.
	Logger *slog.Logger
}

// Gati is the runtime facade: the single object that owns the route
// Manager, the module Loader, the GCtx/LCtx orchestrator, and the Handler
// Engine, and exposes the App surface operators build a server on top of.
type Gati struct {
	routes     *route.Manager
	loader     *loader.Loader
	orch       *orchestrator.Manager
	eng        *engine.Engine
	middleware []Middleware
	logger     *slog.Logger
	config     map[string]any

	moduleNames []string
	healthFunc  HealthCheckFunc
}

// New constructs a Gati facade. Modules must be registered with
// RegisterModule and the facade must be started with Initialize before
// ServeHTTP is driven by a server.
func New(opts Options) *Gati {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	routeOpts := route.DefaultOptions()
	if opts.RouteOptions != nil {
		routeOpts = *opts.RouteOptions
	}

	routes := route.NewManager(routeOpts)
	ld := loader.New(loader.Options{
		InitTimeout:               opts.ModuleInitTimeout,
		AllowCircularDependencies: opts.AllowCircularDependencies,
		AutoInit:                  opts.AutoInit,
	})
	orch := orchestrator.New()

	g := &Gati{
		routes: routes,
		loader: ld,
		orch:   orch,
		logger: logger,
	}
	g.eng = engine.New(routes, orch, engine.Options{
		RequestIDHeader: opts.RequestIDHeader,
		Logger:          logger,
	})
	return g
}

// SetLogger replaces the facade's diagnostic logger. It does not retroactively
// change the logger already wired into the Handler Engine at New time.
func (g *Gati) SetLogger(l *slog.Logger) { g.logger = l }

// Logger returns the facade's diagnostic logger.
func (g *Gati) Logger() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// Use registers global middleware, applied to every route in the order
// added, before any group or route-specific middleware.
func (g *Gati) Use(mw ...Middleware) {
	g.middleware = append(g.middleware, mw...)
}

// RegisterModule adds a capability module to the loader. Call Initialize
// afterwards to resolve dependency order and run Init on every module.
func (g *Gati) RegisterModule(m loader.Module) error {
	if err := g.loader.Register(m); err != nil {
		return err
	}
	g.moduleNames = append(g.moduleNames, m.Name())
	return nil
}

// SetHealthCheck layers an additional check on top of module health,
// consulted by EnableHealthCheck.
func (g *Gati) SetHealthCheck(fn HealthCheckFunc) { g.healthFunc = fn }

// Initialize creates the process GCtx, seeds it with any configuration set
// via SetConfig, and initializes every registered module in dependency
// order, then publishes every initialized module's exports into the GCtx.
func (g *Gati) Initialize(ctx context.Context) error {
	gc, err := g.orch.InitializeGlobalContext(gctx.Options{Config: g.config})
	if err != nil {
		return err
	}
	if err := g.loader.Initialize(ctx); err != nil {
		return err
	}
	for _, name := range g.moduleNames {
		exports, ok := g.loader.Get(name)
		if !ok {
			continue
		}
		if err := gc.RegisterModule(name, exports); err != nil {
			return err
		}
	}
	return nil
}

// SetConfig stores a configuration key/value pair, copied into the GCtx at
// Initialize time. Call before Initialize.
func (g *Gati) SetConfig(key string, value any) {
	if g.config == nil {
		g.config = make(map[string]any)
	}
	g.config[key] = value
}

// GlobalContext returns the process GCtx, or nil before Initialize runs.
func (g *Gati) GlobalContext() *gctx.GCtx {
	return g.orch.GetGlobalContext()
}

// Loader exposes the module loader for advanced callers (health probes,
// metrics exporters) that need direct access to module state.
func (g *Gati) Loader() *loader.Loader { return g.loader }

// ServeHTTP implements http.Handler by delegating to the Handler Engine.
func (g *Gati) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.eng.ServeHTTP(w, r)
}

// Shutdown runs every initialized module's Shutdown (reverse dependency
// order) and then the GCtx's shutdown hooks, collecting errors from both
// sweeps without letting one failure abort the other.
func (g *Gati) Shutdown(ctx context.Context) []error {
	var errs []error
	errs = append(errs, g.loader.Shutdown(ctx)...)
	errs = append(errs, g.orch.Shutdown(ctx)...)
	return errs
}

func (g *Gati) handle(method, path string, h Handler, mws ...Middleware) error {
	final := h
	for i := len(mws) - 1; i >= 0; i-- {
		final = mws[i](final)
	}
	for i := len(g.middleware) - 1; i >= 0; i-- {
		final = g.middleware[i](final)
	}
	return g.routes.Register(method, path, final)
}
