package middleware

import (
	"time"

	"github.com/krishnapaul242/gati/app"
	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
	"github.com/krishnapaul242/gati/logging"
)

// LoggerConfig holds configuration options for the Logger middleware.
type LoggerConfig struct {
	// ExcludeFields turns off specific standard fields: "method", "path",
	// "status", "duration_ms", "user_agent", "request_id".
	ExcludeFields []string
	// CustomAttributes, when set, is called per-request to add extra
	// key/value pairs to the log line.
	CustomAttributes func(req *httpx.Request, l *lctx.LCtx) []any
	// Message is the log message. Defaults to "request".
	Message string
}

// LoggerOption configures Logger.
type LoggerOption func(*LoggerConfig)

// WithExcludeFields excludes specific standard fields from logging.
func WithExcludeFields(fields ...string) LoggerOption {
	return func(cfg *LoggerConfig) { cfg.ExcludeFields = append(cfg.ExcludeFields, fields...) }
}

// WithCustomAttributes adds a function that contributes extra log
// attributes per request.
func WithCustomAttributes(fn func(req *httpx.Request, l *lctx.LCtx) []any) LoggerOption {
	return func(cfg *LoggerConfig) { cfg.CustomAttributes = fn }
}

// WithMessage sets a custom log message, replacing "request".
func WithMessage(message string) LoggerOption {
	return func(cfg *LoggerConfig) { cfg.Message = message }
}

// Logger returns middleware that logs each request with structured
// attributes (method, path, status, duration, request ID) via the logger
// stashed on the request's context by logging.ContextWithLogger, falling
// back to slog.Default.
func Logger(options ...LoggerOption) app.Middleware {
	cfg := &LoggerConfig{Message: "request"}
	for _, opt := range options {
		opt(cfg)
	}

	exclude := make(map[string]bool, len(cfg.ExcludeFields))
	for _, f := range cfg.ExcludeFields {
		exclude[f] = true
	}

	return func(next app.Handler) app.Handler {
		return func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
			start := time.Now()
			err := next(req, res, g, l)
			dur := time.Since(start)

			attrs := make([]any, 0, 12)
			if !exclude["method"] {
				attrs = append(attrs, "method", req.Method())
			}
			if !exclude["path"] {
				attrs = append(attrs, "path", req.Path())
			}
			if !exclude["status"] {
				attrs = append(attrs, "status", res.StatusCode())
			}
			if !exclude["duration_ms"] {
				attrs = append(attrs, "duration_ms", float64(dur.Microseconds())/1000.0)
			}
			if !exclude["user_agent"] {
				attrs = append(attrs, "user_agent", req.Header("User-Agent"))
			}
			if !exclude["request_id"] {
				attrs = append(attrs, "request_id", l.RequestID())
			}
			if cfg.CustomAttributes != nil {
				attrs = append(attrs, cfg.CustomAttributes(req, l)...)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}

			logging.FromContext(req.Raw().Context()).Info(cfg.Message, attrs...)
			return err
		}
	}
}
