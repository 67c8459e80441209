package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/obs"
)

const healthTimeout = 2 * time.Second

// HealthHandler godoc
// @Summary Liveness and dependency check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for name, p := range healthChecks {
		if err := p.Ping(ctx); err != nil {
			obs.Logger.Warn("health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}
