package app

import (
	"net/http"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

// UseMetrics registers a GET handler at path that delegates to an
// http.Handler (typically promhttp.Handler() from the metrics module's
// exports) for Prometheus scraping.
func (g *Gati) UseMetrics(path string, h http.Handler) error {
	return g.GET(path, func(req *httpx.Request, res *httpx.Response, gc *gctx.GCtx, lc *lctx.LCtx) error {
		h.ServeHTTP(res.Raw(), req.Raw())
		return nil
	})
}
