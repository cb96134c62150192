// Package engine implements the Handler Engine: the HTTP ingress that turns
// an *http.Request into a matched route dispatch, materializes the
// Request/Response wrappers and a fresh LCtx for the call, invokes the
// handler, and converts whatever it returns (or panics with) into a
// response, always running LCtx cleanup on the way out.
package engine

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
	"github.com/krishnapaul242/gati/orchestrator"
	"github.com/krishnapaul242/gati/route"
	"github.com/krishnapaul242/gati/security"
)

// Handler is the signature every route handler implements.
type Handler func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error

// Options configures an Engine.
type Options struct {
	// RequestIDHeader names the inbound header an ingress client may use to
	// propagate its own request id. Empty disables the lookup.
	RequestIDHeader string
	Logger          *slog.Logger
}

// Engine wires the route Manager, the GCtx/LCtx orchestrator, and the
// per-request dispatch/error-conversion logic into an http.Handler.
type Engine struct {
	routes  *route.Manager
	orch    *orchestrator.Manager
	opts    Options
	log     *slog.Logger
}

// New builds an Engine over an already-populated route Manager and a
// Manager holding (or that will hold) the process GCtx.
func New(routes *route.Manager, orch *orchestrator.Manager, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{routes: routes, orch: orch, opts: opts, log: logger}
}

// ServeHTTP implements http.Handler.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := security.SanitizePath(r.URL.Path)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Bad Request",
			"path":  r.URL.Path,
		})
		return
	}
	r.URL.Path = path

	match := e.routes.Match(r.Method, path)
	if match == nil {
		if allowed := e.routes.MatchesAnyMethod(path); len(allowed) > 0 {
			w.Header().Set("Allow", joinMethods(allowed))
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
				"error": "Method Not Allowed",
				"path":  path,
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": "Not Found",
			"path":  path,
		})
		return
	}

	handler, ok := match.Route.Handler.(Handler)
	if !ok {
		e.log.Error("route handler has unexpected type", "path", match.Route.Pattern.Source, "method", match.Route.Method)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"})
		return
	}

	g := e.orch.GetGlobalContext()

	seededID := ""
	if e.opts.RequestIDHeader != "" {
		seededID = r.Header.Get(e.opts.RequestIDHeader)
	}
	l := e.orch.CreateRequestContext(lctx.Options{RequestID: seededID})
	defer func() {
		if errs := e.orch.CleanupRequestContext(r.Context(), l); len(errs) > 0 {
			for _, err := range errs {
				e.log.Error("lctx cleanup hook failed", "requestId", l.RequestID(), "error", err)
			}
		}
	}()

	req := httpx.NewRequest(r, match.Params)
	res := httpx.NewResponse(w)

	err := e.invoke(handler, req, res, g, l)
	if err == nil {
		return
	}

	e.writeHandlerError(res, l, err)
}

// invoke runs the handler, converting a panic into an error so it is
// reported through the same HandlerFailure path as a returned error.
func (e *Engine) invoke(h Handler, req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("handler panicked", "requestId", l.RequestID(), "panic", r)
			err = &StatusError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}
		}
	}()
	return h(req, res, g, l)
}

func (e *Engine) writeHandlerError(res *httpx.Response, l *lctx.LCtx, err error) {
	if res.Written() {
		// Headers already sent; nothing more can be written without
		// corrupting the wire.
		return
	}

	if he, ok := err.(HandlerError); ok {
		body := map[string]any{
			"error":     he.Error(),
			"requestId": l.RequestID(),
		}
		if ctx := he.Context(); len(ctx) > 0 {
			body["context"] = ctx
		}
		_ = res.Status(he.StatusCode()).JSON(body)
		return
	}

	e.log.Error("unhandled handler error", "requestId", l.RequestID(), "error", err)
	_ = res.Status(http.StatusInternalServerError).JSON(map[string]any{
		"error":     "Internal Server Error",
		"requestId": l.RequestID(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func joinMethods(methods []string) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}
