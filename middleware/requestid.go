package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/krishnapaul242/gati/app"
	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	// Header is the response header name carrying the request ID. Defaults
	// to X-Request-ID.
	Header string
}

// RequestID returns middleware that echoes a client-supplied request ID
// header back on the response. Without one it uses the LCtx's request ID,
// or a freshly generated ID if that is empty. The LCtx's request ID is
// never changed.
func RequestID(cfgs ...RequestIDConfig) app.Middleware {
	header := "X-Request-ID"
	if len(cfgs) > 0 && cfgs[0].Header != "" {
		header = cfgs[0].Header
	}
	return func(next app.Handler) app.Handler {
		return func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
			id := req.Header(header)
			if id == "" {
				id = l.RequestID()
			}
			if id == "" {
				id = newID()
			}
			res.Header(header, id)
			return next(req, res, g, l)
		}
	}
}

func newID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
