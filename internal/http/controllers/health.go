package controllers

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/aegis/internal/http/helpers"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// Pinger es lo mínimo que el health check necesita del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController maneja los health checks.
type HealthController struct {
	store Pinger
}

// NewHealthController crea el controller de health.
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Healthz maneja GET /healthz
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	components := map[string]string{}
	status := "ready"
	code := http.StatusOK

	if err := c.store.Ping(ctx); err != nil {
		logger.From(ctx).Warn("store ping failed", logger.Err(err))
		components["store"] = "unavailable"
		status = "unavailable"
		code = http.StatusServiceUnavailable
	} else {
		components["store"] = "ok"
	}

	helpers.WriteJSON(w, code, healthResponse{Status: status, Components: components})
}
