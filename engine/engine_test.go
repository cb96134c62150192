package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
	"github.com/krishnapaul242/gati/orchestrator"
	"github.com/krishnapaul242/gati/route"
)

func newTestEngine(t *testing.T) (*Engine, *route.Manager, *orchestrator.Manager) {
	t.Helper()
	routes := route.NewManager(route.DefaultOptions())
	orch := orchestrator.New()
	if _, err := orch.InitializeGlobalContext(gctx.Options{}); err != nil {
		t.Fatalf("InitializeGlobalContext: %v", err)
	}
	return New(routes, orch, Options{}), routes, orch
}

func TestServeHTTPDispatchesMatchedHandler(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	var sawRequestID string
	h := Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		sawRequestID = l.RequestID()
		return res.Status(http.StatusOK).JSON(map[string]any{"id": req.Param("id")})
	})
	if err := routes.Get("/users/:id", h); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if sawRequestID == "" {
		t.Fatalf("expected handler to observe a non-empty requestId")
	}
}

func TestServeHTTPNormalizesPathBeforeMatching(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	h := Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		return res.Status(http.StatusOK).JSON(map[string]any{"id": req.Param("id")})
	})
	if err := routes.Get("/users/:id", h); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	r.URL.Path = "//users/42"
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (doubled leading slash should normalize)", w.Code)
	}
}

func TestServeHTTPRejectsUnsafePath(t *testing.T) {
	e, _, _ := newTestEngine(t)
	r := httptest.NewRequest(http.MethodGet, "/users/@bad", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestServeHTTPReturns404ForUnmatchedPath(t *testing.T) {
	e, _, _ := newTestEngine(t)
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "Not Found" {
		t.Fatalf("body = %v", body)
	}
}

func TestServeHTTPReturns405ForWrongMethod(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	_ = routes.Post("/widgets", Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		res.NoContent()
		return nil
	}))

	r := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestServeHTTPConvertsHandlerErrorToStatusAndContext(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	_ = routes.Get("/conflict", Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		return &StatusError{Code: http.StatusConflict, Message: "already exists", Extra: map[string]any{"id": "1"}}
	}))

	r := httptest.NewRequest(http.MethodGet, "/conflict", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "already exists" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["context"]; !ok {
		t.Fatalf("expected context in body: %v", body)
	}
	if _, ok := body["requestId"]; !ok {
		t.Fatalf("expected requestId in body: %v", body)
	}
}

func TestServeHTTPConvertsUnexpectedErrorTo500(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	_ = routes.Get("/boom", Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		return errUnexpected{}
	}))

	r := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Internal Server Error" {
		t.Fatalf("body = %v", body)
	}
}

type errUnexpected struct{}

func (errUnexpected) Error() string { return "boom" }

func TestServeHTTPRecoversFromPanic(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	_ = routes.Get("/panics", Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		panic("kaboom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/panics", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 after recovered panic", w.Code)
	}
}

func TestServeHTTPRunsCleanupOnEveryExitPath(t *testing.T) {
	e, routes, _ := newTestEngine(t)
	cleaned := false
	_ = routes.Get("/cleanup", Handler(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		l.Lifecycle().OnCleanup(func(ctx context.Context) error {
			cleaned = true
			return nil
		})
		return errUnexpected{}
	}))

	r := httptest.NewRequest(http.MethodGet, "/cleanup", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !cleaned {
		t.Fatalf("cleanup hook did not run on the error path")
	}
}
