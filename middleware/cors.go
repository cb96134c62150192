package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/krishnapaul242/gati/app"
	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// Origins specifies allowed origins. Empty means no
	// Access-Control-Allow-Origin header is set; "*" allows all.
	Origins []string
	// Methods specifies allowed HTTP methods; defaults to the common set.
	Methods []string
	// Headers specifies allowed request headers.
	Headers []string
	// Expose specifies response headers exposed to the browser.
	Expose []string
	// Credentials enables Access-Control-Allow-Credentials.
	Credentials bool
	// MaxAge sets the preflight cache duration in seconds.
	MaxAge int
}

// CORS returns middleware that sets CORS headers and answers preflight
// requests per the given config.
func CORS(cfg CORSConfig) app.Middleware {
	allowedMethods := uniqOrDefault(cfg.Methods, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"})
	allowedMethodsStr := strings.Join(allowedMethods, ", ")
	allowedHeadersStr := strings.Join(cfg.Headers, ", ")
	exposeHeaders := strings.Join(cfg.Expose, ", ")

	hasWildcard := false
	for _, origin := range cfg.Origins {
		if origin == "*" {
			hasWildcard = true
			break
		}
	}
	if hasWildcard && cfg.Credentials {
		panic("CORS: cannot use wildcard origin (*) with credentials=true")
	}

	return func(next app.Handler) app.Handler {
		return func(req *httpx.Request, res *httpx.Response, g *gctx.GCtx, l *lctx.LCtx) error {
			origin := req.Header("Origin")

			var allowedOrigin string
			if len(cfg.Origins) > 0 {
				if hasWildcard {
					allowedOrigin = "*"
				} else if origin != "" && origin != "null" {
					for _, allowed := range cfg.Origins {
						if origin == allowed {
							allowedOrigin = origin
							break
						}
					}
				}
			}

			if allowedOrigin != "" {
				res.Header("Access-Control-Allow-Origin", allowedOrigin)
			}
			if cfg.Credentials && allowedOrigin != "*" {
				res.Header("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				res.Header("Access-Control-Expose-Headers", exposeHeaders)
			}
			res.Header("X-Content-Type-Options", "nosniff")
			res.Header("X-Frame-Options", "DENY")

			if req.Method() == http.MethodOptions {
				requestMethod := req.Header("Access-Control-Request-Method")
				if requestMethod != "" {
					methodAllowed := false
					for _, method := range allowedMethods {
						if requestMethod == method {
							methodAllowed = true
							break
						}
					}
					if !methodAllowed {
						return res.Status(http.StatusForbidden).Text("Method not allowed")
					}

					requestHeaders := req.Header("Access-Control-Request-Headers")
					if requestHeaders != "" && len(cfg.Headers) > 0 {
						for _, reqHeader := range strings.Split(strings.ToLower(requestHeaders), ",") {
							reqHeader = strings.TrimSpace(reqHeader)
							headerAllowed := false
							for _, allowedHeader := range cfg.Headers {
								if reqHeader == strings.ToLower(allowedHeader) {
									headerAllowed = true
									break
								}
							}
							if !headerAllowed {
								return res.Status(http.StatusForbidden).Text("Header not allowed")
							}
						}
					}

					if allowedMethodsStr != "" {
						res.Header("Access-Control-Allow-Methods", allowedMethodsStr)
					}
					if allowedHeadersStr != "" {
						res.Header("Access-Control-Allow-Headers", allowedHeadersStr)
					}
					if cfg.MaxAge > 0 {
						res.Header("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
					res.Status(http.StatusNoContent).NoContent()
					return nil
				}
				return res.Status(http.StatusOK).Text("")
			}
			return next(req, res, g, l)
		}
	}
}

// uniqOrDefault returns v with duplicates removed, or def if v is empty.
func uniqOrDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(v))
	for _, s := range v {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
