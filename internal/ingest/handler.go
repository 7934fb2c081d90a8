package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/measurement"
)

// Recorder stores a parsed measurement.
type Recorder interface {
	Record(ctx context.Context, m *measurement.Measurement) error
}

// Handler parses raw broker payloads and records them.
type Handler struct {
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewHandler creates a handler writing to recorder.
func NewHandler(recorder Recorder, logger zerolog.Logger) *Handler {
	return &Handler{
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle parses data and records it. Parse failures wrap
// ErrUnsupportedPayload; any other error comes from the store and is worth
// retrying.
func (h *Handler) Handle(ctx context.Context, data []byte) error {
	m, err := Parse(data, h.now())
	if err != nil {
		return err
	}
	return h.recorder.Record(ctx, m)
}

// ShouldAck reports whether a message that produced err should be removed
// from the broker. Successes and payloads that can never be stored are acked.
func ShouldAck(err error) bool {
	return err == nil ||
		errors.Is(err, ErrUnsupportedPayload) ||
		errors.Is(err, measurement.ErrInvalidMeasurement)
}
