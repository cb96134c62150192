// Package httpx wraps the raw net/http request/response pair the engine
// hands to a handler, adding typed parameter access, JSON/map binding with
// struct validation, and response helpers in the teacher's Ctx idiom.
package httpx

import (
	"net/http"
	"strconv"

	"github.com/krishnapaul242/gati/security"
)

// Request wraps the inbound *http.Request together with the route
// parameters the manager extracted for the matched pattern.
type Request struct {
	r      *http.Request
	params map[string]string
}

// NewRequest builds a Request from the raw request and its matched route
// parameters.
func NewRequest(r *http.Request, params map[string]string) *Request {
	return &Request{r: r, params: params}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.r }

// Method returns the HTTP method.
func (req *Request) Method() string { return req.r.Method }

// Path returns the request's URL path.
func (req *Request) Path() string { return req.r.URL.Path }

// Header returns a request header value.
func (req *Request) Header(name string) string { return req.r.Header.Get(name) }

// Param returns a named path parameter, or "" if absent.
func (req *Request) Param(name string) string { return req.params[name] }

// ParamInt returns a named path parameter parsed as an int, or def if absent
// or unparsable.
func (req *Request) ParamInt(name string, def int) int {
	v, ok := req.params[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ParamSafe returns a path parameter after rejecting path-traversal and
// control characters, for parameters that will be used to build a
// filesystem path. Returns "" if the value is unsafe.
func (req *Request) ParamSafe(name string) string {
	return security.SanitizeSegment(req.params[name])
}

// Query returns a query string value.
func (req *Request) Query(name string) string { return req.r.URL.Query().Get(name) }

// QueryInt returns a query string value parsed as an int, or def if absent
// or unparsable.
func (req *Request) QueryInt(name string, def int) int {
	v := req.r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// QuerySafe returns a query string value after rejecting path-traversal and
// control characters.
func (req *Request) QuerySafe(name string) string {
	return security.SanitizeSegment(req.r.URL.Query().Get(name))
}

// AllParams returns a copy of every matched path parameter.
func (req *Request) AllParams() map[string]string {
	out := make(map[string]string, len(req.params))
	for k, v := range req.params {
		out[k] = v
	}
	return out
}
