// Package metrics is a capability module exposing a Prometheus registry and
// a request-duration histogram; no middleware in this repository records
// into the histogram.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishnapaul242/gati/loader"
)

// Config names the namespace/subsystem metrics are registered under.
type Config struct {
	Namespace string
	Subsystem string
}

// Module owns a private prometheus.Registry so multiple Gati instances in
// the same process (tests, multi-tenant embedding) don't collide on the
// default global registry.
type Module struct {
	cfg      Config
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
}

// New returns an unregistered Module.
func New(cfg Config) *Module {
	return &Module{cfg: cfg}
}

func (m *Module) Name() string           { return "metrics" }
func (m *Module) Dependencies() []string { return nil }

// Exports is the value metrics's Init returns.
type Exports struct {
	Registerer      prometheus.Registerer
	RequestDuration *prometheus.HistogramVec
	handler         http.Handler
}

// Handler returns the HTTP handler serving the registry's metrics in the
// Prometheus exposition format.
func (e Exports) Handler() http.Handler { return e.handler }

func (m *Module) Init(_ context.Context, _ loader.Dependencies) (any, error) {
	registry := prometheus.NewRegistry()

	duration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.cfg.Namespace,
			Subsystem: m.cfg.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of handled requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	m.registry = registry
	m.duration = duration

	return Exports{
		Registerer:      registry,
		RequestDuration: duration,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// HealthCheck always succeeds once initialized: the registry is an in-memory
// structure with no external dependency to probe.
func (m *Module) HealthCheck(_ context.Context) error {
	if m.registry == nil {
		return errNotInitialized
	}
	return nil
}

func (m *Module) Shutdown(_ context.Context) error { return nil }

var errNotInitialized = fmt.Errorf("metrics: not initialized")
