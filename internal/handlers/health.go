package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

//go:generate mockgen -source=health.go -destination=health_mock.go -package=handlers

const healthTimeout = 2 * time.Second

// Pinger checks that the account store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an HTTP handler reporting store availability.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func NewHealthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			logger.Log.Warnw("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy"})
	}
}
