// Package gati re-exports the runtime facade's public surface so callers
// only need one import for the common path.
package gati

import (
	"github.com/krishnapaul242/gati/app"
)

// Gati is the request-serving runtime: route registration, module loading,
// and the handler execution pipeline. Re-exported from app.Gati.
type Gati = app.Gati

// Options configures New. Re-exported from app.Options.
type Options = app.Options

// Group is a prefixed collection of routes sharing middleware. Re-exported
// from app.Group.
type Group = app.Group

// Handler is the signature every route handler implements. Re-exported from
// app.Handler.
type Handler = app.Handler

// Middleware transforms a Handler into another Handler. Re-exported from
// app.Middleware.
type Middleware = app.Middleware

// App is the public interface Gati implements, useful for mocking in
// tests. Re-exported from app.App.
type App = app.App

// New creates a new Gati runtime with the given options.
func New(opts Options) *Gati { return app.New(opts) }
