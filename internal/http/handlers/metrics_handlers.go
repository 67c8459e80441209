package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/vending-machine/internal/obs"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for the operator view
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		obs.Logger.Error("failed to fetch metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch metrics")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
