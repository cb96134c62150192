package app

import "github.com/krishnapaul242/gati/route"

// Group is a set of routes sharing a URL prefix and middleware stack.
// Created from a Gati via (*Gati).Group, or nested from an existing Group
// via (*Group).Group.
type Group struct {
	app        *Gati
	prefix     string
	middleware []Middleware
}

// Group creates a new route group with the given prefix and optional
// middleware. Routes registered on the group inherit the prefix and group
// middleware, applied after global middleware and before route-specific
// middleware.
func (g *Gati) Group(prefix string, mw ...Middleware) *Group {
	return &Group{app: g, prefix: cleanPath(prefix), middleware: mw}
}

// Use adds middleware to the group, applied in the order added.
func (grp *Group) Use(mw ...Middleware) { grp.middleware = append(grp.middleware, mw...) }

// Group creates a nested group, inheriting the parent's prefix and
// middleware, with any additional middleware appended.
func (grp *Group) Group(prefix string, mw ...Middleware) *Group {
	child := &Group{app: grp.app, prefix: joinPath(grp.prefix, prefix)}
	child.middleware = append(child.middleware, grp.middleware...)
	child.middleware = append(child.middleware, mw...)
	return child
}

func (grp *Group) handle(method, p string, h Handler, mws ...Middleware) error {
	all := append([]Middleware{}, grp.middleware...)
	all = append(all, mws...)
	return grp.app.handle(method, joinPath(grp.prefix, p), h, all...)
}

// GET registers a handler for HTTP GET requests on the group's prefix + path.
func (grp *Group) GET(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodGet, p, h, mws...)
}

// POST registers a handler for HTTP POST requests on the group's prefix + path.
func (grp *Group) POST(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodPost, p, h, mws...)
}

// PUT registers a handler for HTTP PUT requests on the group's prefix + path.
func (grp *Group) PUT(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodPut, p, h, mws...)
}

// PATCH registers a handler for HTTP PATCH requests on the group's prefix + path.
func (grp *Group) PATCH(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodPatch, p, h, mws...)
}

// DELETE registers a handler for HTTP DELETE requests on the group's prefix + path.
func (grp *Group) DELETE(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodDelete, p, h, mws...)
}

// OPTIONS registers a handler for HTTP OPTIONS requests on the group's prefix + path.
func (grp *Group) OPTIONS(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodOptions, p, h, mws...)
}

// HEAD registers a handler for HTTP HEAD requests on the group's prefix + path.
func (grp *Group) HEAD(p string, h Handler, mws ...Middleware) error {
	return grp.handle(route.MethodHead, p, h, mws...)
}
