package measurement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/cosyhome/cosy/internal/climate"
)

const instrumentationName = "github.com/cosyhome/cosy/internal/measurement"

// ServiceConfig holds configuration for the measurement service.
type ServiceConfig struct {
	// Repository is the measurement store.
	Repository Repository

	// Deriver classifies the latest reading. If nil, uses the default threshold.
	Deriver *climate.Deriver

	// Logger for service operations.
	Logger zerolog.Logger

	// Now returns the current time (optional, defaults to time.Now).
	Now func() time.Time
}

// Service serves the latest reading and records new ones.
type Service struct {
	repo    Repository
	deriver *climate.Deriver
	logger  zerolog.Logger
	now     func() time.Time

	tracer        trace.Tracer
	statusCounter metric.Int64Counter
}

// NewService creates a new measurement service.
func NewService(cfg ServiceConfig) *Service {
	deriver := cfg.Deriver
	if deriver == nil {
		deriver = climate.NewDeriver(climate.DefaultThreshold)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	meter := otel.Meter(instrumentationName)
	statusCounter, err := meter.Int64Counter(
		"comfort.status.derived",
		metric.WithDescription("Number of comfort classifications served"),
		metric.WithUnit("{status}"),
	)
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("failed to create status counter")
	}

	return &Service{
		repo:          cfg.Repository,
		deriver:       deriver,
		logger:        cfg.Logger,
		now:           now,
		tracer:        otel.Tracer(instrumentationName),
		statusCounter: statusCounter,
	}
}

// Threshold returns the comfort point readings are classified against.
func (s *Service) Threshold() float64 {
	return s.deriver.Threshold()
}

// Latest fetches the most recent reading and classifies it.
//
// Returns ErrNoMeasurement when the store is empty and ErrInvalidMeasurement
// when the stored temperature is not finite. Other errors come from the store.
func (s *Service) Latest(ctx context.Context) (*climate.TemperatureResponse, error) {
	ctx, span := s.tracer.Start(ctx, "measurement.Latest")
	defer span.End()

	m, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, ErrNoMeasurement) {
			span.SetAttributes(attribute.Bool("measurement.found", false))
			return nil, ErrNoMeasurement
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch latest measurement")
		return nil, fmt.Errorf("fetch latest measurement: %w", err)
	}

	if !isFinite(m.Temperature) {
		span.SetStatus(codes.Error, "non-finite temperature")
		return nil, fmt.Errorf("%w: measurement %s has non-finite temperature", ErrInvalidMeasurement, m.ID)
	}

	humidity := m.Humidity
	if humidity != nil && !isFinite(*humidity) {
		s.logger.Warn().
			Str("measurement_id", m.ID).
			Msg("dropping non-finite humidity")
		humidity = nil
	}

	result := s.deriver.Derive(m.Temperature)

	span.SetAttributes(
		attribute.Bool("measurement.found", true),
		attribute.Float64("measurement.temperature", m.Temperature),
		attribute.String("comfort.status", result.Status.String()),
	)
	if s.statusCounter != nil {
		s.statusCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("comfort.status", result.Status.String()),
		))
	}

	return climate.NewTemperatureResponse(m.Temperature, humidity, m.Timestamp, m.SensorID, result), nil
}

// Record validates and stores a new reading. ID and CreatedAt are assigned
// when empty.
func (s *Service) Record(ctx context.Context, m *Measurement) error {
	if m == nil {
		return fmt.Errorf("%w: nil measurement", ErrInvalidMeasurement)
	}
	if !isFinite(m.Temperature) {
		return fmt.Errorf("%w: temperature must be finite", ErrInvalidMeasurement)
	}
	if m.Humidity != nil && !isFinite(*m.Humidity) {
		return fmt.Errorf("%w: humidity must be finite", ErrInvalidMeasurement)
	}

	if m.ID == "" {
		m.ID = "msr_" + uuid.New().String()[:22]
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return fmt.Errorf("save measurement: %w", err)
	}

	event := s.logger.Debug().
		Str("measurement_id", m.ID).
		Float64("temperature", m.Temperature)
	if m.SensorID != nil {
		event = event.Str("sensor_id", *m.SensorID)
	}
	event.Msg("measurement recorded")

	return nil
}

// Ping checks the underlying store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
