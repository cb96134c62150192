package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNameAndDependencies(t *testing.T) {
	m := New(Config{Namespace: "gati"})
	if m.Name() != "metrics" {
		t.Fatalf("Name() = %q, want metrics", m.Name())
	}
	if len(m.Dependencies()) != 0 {
		t.Fatalf("expected no dependencies, got %v", m.Dependencies())
	}
}

func TestHealthCheckBeforeInitFails(t *testing.T) {
	m := New(Config{})
	if err := m.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected error before Init")
	}
}

func TestInitRegistersRequestDurationAndServesHandler(t *testing.T) {
	m := New(Config{Namespace: "gati", Subsystem: "http"})
	exports, err := m.Init(context.Background(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	e := exports.(Exports)

	e.RequestDuration.WithLabelValues("GET", "/widgets", "200").Observe(0.042)

	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	e.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "gati_http_request_duration_seconds") {
		t.Fatalf("expected metrics output to contain the registered histogram, got:\n%s", w.Body.String())
	}

	if err := m.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
