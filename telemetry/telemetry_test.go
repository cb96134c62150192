package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

func newRecordingTracer(t *testing.T) (*tracesdk.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSyncer(exp))
	return tp, exp
}

func TestMiddlewareRecordsSpanOnSuccess(t *testing.T) {
	tp, exp := newRecordingTracer(t)
	defer tp.Shutdown(context.Background())

	mw := Middleware(MiddlewareConfig{Tracer: tp.Tracer("test")})
	h := mw(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		return res.Status(http.StatusOK).JSON(map[string]any{"ok": true})
	})

	r := httptest.NewRequest(http.MethodGet, "/widgets/1", nil)
	w := httptest.NewRecorder()
	req := httpx.NewRequest(r, map[string]string{"id": "1"})
	res := httpx.NewResponse(w)
	l := lctx.New(lctx.Options{})

	if err := h(req, res, nil, l); err != nil {
		t.Fatalf("handler: %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "GET /widgets/1" {
		t.Fatalf("span name = %q", span.Name)
	}
	if span.Status.Code != codes.Ok {
		t.Fatalf("expected Ok status, got %v", span.Status.Code)
	}
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	tp, exp := newRecordingTracer(t)
	defer tp.Shutdown(context.Background())

	mw := Middleware(MiddlewareConfig{Tracer: tp.Tracer("test")})
	wantErr := errors.New("boom")
	h := mw(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		return wantErr
	})

	r := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	req := httpx.NewRequest(r, nil)
	res := httpx.NewResponse(w)
	l := lctx.New(lctx.Options{})

	if err := h(req, res, nil, l); err != wantErr {
		t.Fatalf("expected middleware to pass through handler error, got %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Fatalf("expected Error status, got %v", spans[0].Status.Code)
	}
	if spans[0].Status.Description != "boom" {
		t.Fatalf("status description = %q", spans[0].Status.Description)
	}
}

func TestMiddlewareUsesCustomSpanName(t *testing.T) {
	tp, exp := newRecordingTracer(t)
	defer tp.Shutdown(context.Background())

	mw := Middleware(MiddlewareConfig{
		Tracer: tp.Tracer("test"),
		SpanName: func(req *httpx.Request) string {
			return "custom." + req.Path()
		},
	})
	h := mw(func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
		res.NoContent()
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "/named", nil)
	w := httptest.NewRecorder()
	req := httpx.NewRequest(r, nil)
	res := httpx.NewResponse(w)
	l := lctx.New(lctx.Options{})

	if err := h(req, res, nil, l); err != nil {
		t.Fatalf("handler: %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "custom./named" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
}
