// Package measurement stores temperature/humidity readings and serves the
// most recent one, classified against the comfort threshold.
package measurement

import (
	"errors"
	"time"
)

// Repository and service errors.
var (
	// ErrNoMeasurement is returned when the store holds no readings. It is a
	// "no data" condition, never a validation failure.
	ErrNoMeasurement = errors.New("no measurement available")

	// ErrInvalidMeasurement is returned when a reading cannot satisfy the
	// temperature response contract, for example a non-finite temperature.
	ErrInvalidMeasurement = errors.New("invalid measurement")
)

// Measurement is a single sensor reading. Stored readings are immutable.
type Measurement struct {
	ID          string
	SensorID    *string
	Temperature float64
	Humidity    *float64
	Timestamp   *time.Time
	CreatedAt   time.Time
}

// newer reports whether m sorts before other in "most recent first" order.
// Readings without a timestamp sort last; ties go to the later insert.
func (m *Measurement) newer(other *Measurement) bool {
	switch {
	case m.Timestamp == nil && other.Timestamp == nil:
		return !m.CreatedAt.Before(other.CreatedAt)
	case m.Timestamp == nil:
		return false
	case other.Timestamp == nil:
		return true
	case m.Timestamp.Equal(*other.Timestamp):
		return !m.CreatedAt.Before(other.CreatedAt)
	default:
		return m.Timestamp.After(*other.Timestamp)
	}
}
