package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/api/middleware"
	"github.com/cosyhome/cosy/internal/api/response"
	"github.com/cosyhome/cosy/internal/climate"
	"github.com/cosyhome/cosy/internal/measurement"
)

// LatestReader returns the latest classified reading.
type LatestReader interface {
	Latest(ctx context.Context) (*climate.TemperatureResponse, error)
}

// TemperatureHandler serves the latest reading.
type TemperatureHandler struct {
	readings LatestReader
	logger   zerolog.Logger
}

// NewTemperatureHandler creates a TemperatureHandler.
func NewTemperatureHandler(readings LatestReader, logger zerolog.Logger) *TemperatureHandler {
	return &TemperatureHandler{readings: readings, logger: logger}
}

// GetTemperature handles GET /api/temperature.
func (h *TemperatureHandler) GetTemperature(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With().Str("request_id", middleware.GetRequestID(r.Context())).Logger()

	reading, err := h.readings.Latest(r.Context())
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, reading)
	case errors.Is(err, measurement.ErrNoMeasurement):
		logger.Info().Msg("no measurement available")
		response.NotFound(w, r, "No temperature data found")
	case errors.Is(err, measurement.ErrInvalidMeasurement):
		logger.Error().Err(err).Msg("stored measurement cannot be served")
		response.BadData(w, r, "The latest measurement is not a valid reading")
	default:
		logger.Error().Err(err).Msg("failed to fetch latest measurement")
		response.ServiceUnavailable(w, r, "Error fetching temperature data")
	}
}
