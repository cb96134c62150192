package app

import "github.com/krishnapaul242/gati/route"

// GET registers a handler for HTTP GET requests on the given path.
func (g *Gati) GET(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodGet, path, h, mws...)
}

// POST registers a handler for HTTP POST requests on the given path.
func (g *Gati) POST(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodPost, path, h, mws...)
}

// PUT registers a handler for HTTP PUT requests on the given path.
func (g *Gati) PUT(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodPut, path, h, mws...)
}

// PATCH registers a handler for HTTP PATCH requests on the given path.
func (g *Gati) PATCH(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodPatch, path, h, mws...)
}

// DELETE registers a handler for HTTP DELETE requests on the given path.
func (g *Gati) DELETE(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodDelete, path, h, mws...)
}

// HEAD registers a handler for HTTP HEAD requests on the given path.
func (g *Gati) HEAD(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodHead, path, h, mws...)
}

// OPTIONS registers a handler for HTTP OPTIONS requests on the given path.
func (g *Gati) OPTIONS(path string, h Handler, mws ...Middleware) error {
	return g.handle(route.MethodOptions, path, h, mws...)
}

// Handle registers a handler for an arbitrary HTTP method on the given path.
func (g *Gati) Handle(method, path string, h Handler, mws ...Middleware) error {
	return g.handle(method, path, h, mws...)
}
