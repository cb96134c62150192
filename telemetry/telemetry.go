// Package telemetry wires OpenTelemetry tracing into the request pipeline:
// Setup builds a TracerProvider (stdout exporter by default, OTLP/gRPC when
// an endpoint is configured), and Middleware wraps every handler invocation
// in a span.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/krishnapaul242/gati/app"
	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

// Config selects the exporter Setup builds.
type Config struct {
	// ServiceName becomes the service.name resource attribute.
	ServiceName string
	// OTLPEndpoint, when non-empty, switches the exporter from stdout to
	// OTLP/gRPC against this collector address.
	OTLPEndpoint string
}

// Setup installs a global TracerProvider and returns a function to flush and
// shut it down on process exit.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var exporter tracesdk.SpanExporter
	if cfg.OTLPEndpoint != "" {
		exporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint), otlptracegrpc.WithInsecure())
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry: building exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// SpanNameFunc computes a span name from the in-flight request.
type SpanNameFunc func(req *httpx.Request) string

// AttributesFunc computes extra span attributes from the in-flight request.
type AttributesFunc func(req *httpx.Request) []attribute.KeyValue

// MiddlewareConfig customizes Middleware's span creation.
type MiddlewareConfig struct {
	Tracer     trace.Tracer
	SpanName   SpanNameFunc
	Attributes AttributesFunc
}

// Middleware wraps every handler invocation in a span named "<method> <path>"
// after the request path (or cfg.SpanName's result), recording the handler's
// error (if any) as the span status.
func Middleware(cfg MiddlewareConfig) app.Middleware {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("gati")
	}
	return func(next app.Handler) app.Handler {
		return func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
			name := req.Method() + " " + req.Path()
			if cfg.SpanName != nil {
				if n := cfg.SpanName(req); n != "" {
					name = n
				}
			}

			spanCtx, span := tracer.Start(req.Raw().Context(), name)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", req.Method()),
				attribute.String("http.path", req.Path()),
				attribute.String("request.id", l.RequestID()),
			)
			if cfg.Attributes != nil {
				span.SetAttributes(cfg.Attributes(req)...)
			}

			req = httpx.NewRequest(req.Raw().WithContext(spanCtx), req.AllParams())

			err := next(req, res, g, l)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		}
	}
}
