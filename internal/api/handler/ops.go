// Package handler provides the HTTP handlers of the cosy API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/api/models"
	"github.com/cosyhome/cosy/internal/api/response"
)

// RootMessage is the banner served at /.
const RootMessage = "cosy backend is running"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler serves the banner, liveness and readiness endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     Pinger
	logger    zerolog.Logger
}

// NewOpsHandler creates an OpsHandler. store may be nil, in which case
// readiness always succeeds.
func NewOpsHandler(version, buildTime string, store Pinger, logger zerolog.Logger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     store,
		logger:    logger,
	}
}

// Root handles GET /.
func (h *OpsHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Message{Message: RootMessage})
}

// HealthCheck handles GET /health.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("readiness check failed")
			response.ServiceUnavailable(w, r, "measurement store is not reachable")
			return
		}
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	})
}
