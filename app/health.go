package app

import (
	"net/http"

	"github.com/krishnapaul242/gati/gctx"
	"github.com/krishnapaul242/gati/httpx"
	"github.com/krishnapaul242/gati/lctx"
)

// EnableHealthCheck registers a GET handler at path that aggregates the
// module Loader's HealthCheck results (and the optional extra check set via
// SetHealthCheck) into a single JSON body, responding 503 if anything is
// unhealthy.
func (g *Gati) EnableHealthCheck(path string) error {
	return g.GET(path, func(req *httpx.Request, res *httpx.Response, gc *gctx.GCtx, lc *lctx.LCtx) error {
		results := g.loader.HealthCheck(req.Raw().Context())
		status := "healthy"
		modules := make(map[string]string, len(results))
		httpStatus := http.StatusOK
		for name, err := range results {
			if err != nil {
				modules[name] = err.Error()
				status = "unhealthy"
				httpStatus = http.StatusServiceUnavailable
			} else {
				modules[name] = "ok"
			}
		}
		if g.healthFunc != nil {
			if err := g.healthFunc(); err != nil {
				status = "unhealthy"
				httpStatus = http.StatusServiceUnavailable
				modules["_extra"] = err.Error()
			}
		}
		return res.Status(httpStatus).JSON(map[string]any{
			"status":  status,
			"modules": modules,
		})
	})
}
