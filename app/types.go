package app

import (
	"log/slog"
	"net/http"

	"github.com/krishnapaul242/gati/engine"
)

// Handler is the function signature every route handler implements. It is a
// re-export of engine.Handler so callers only need to import this package.
type Handler = engine.Handler

// Middleware transforms a Handler into another Handler, composing
// cross-cutting concerns (logging, auth, recovery) around the route
// handler. Middleware is applied in registration order: global middleware
// first, then group middleware (outer to inner), then route-specific
// middleware, then the handler itself.
type Middleware func(Handler) Handler

// HealthCheckFunc is an extra check layered on top of module health,
// run by EnableHealthCheck alongside the module Loader's own checks.
type HealthCheckFunc func() error

// App defines the public surface of the runtime facade, suitable for
// mocking. Implemented by *Gati.
type App interface {
	Use(mw ...Middleware)

	GET(path string, h Handler, mws ...Middleware) error
	POST(path string, h Handler, mws ...Middleware) error
	PUT(path string, h Handler, mws ...Middleware) error
	PATCH(path string, h Handler, mws ...Middleware) error
	DELETE(path string, h Handler, mws ...Middleware) error
	HEAD(path string, h Handler, mws ...Middleware) error
	OPTIONS(path string, h Handler, mws ...Middleware) error
	Handle(method, path string, h Handler, mws ...Middleware) error

	ServeHTTP(w http.ResponseWriter, r *http.Request)

	Group(prefix string, mw ...Middleware) *Group

	SetLogger(l *slog.Logger)
	Logger() *slog.Logger
}
