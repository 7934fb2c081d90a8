// Package ingest turns sensor messages from a broker into stored
// measurements.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cosyhome/cosy/internal/measurement"
	"github.com/cosyhome/cosy/internal/validation"
)

// ErrUnsupportedPayload marks a message that can never be stored, no matter
// how often it is redelivered.
var ErrUnsupportedPayload = errors.New("unsupported payload")

// Message is the JSON body published by a sensor.
type Message struct {
	SensorID    *string  `json:"sensorId" validate:"omitempty,min=1,max=128"`
	Temperature *float64 `json:"temperature" validate:"required,finite"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,finite,min=0,max=100"`
	Timestamp   *string  `json:"timestamp"`
}

var validate = validation.New()

// Parse decodes and validates a sensor message. A missing timestamp takes
// the receive time. Errors wrap ErrUnsupportedPayload.
func Parse(data []byte, received time.Time) (*measurement.Measurement, error) {
	var msg Message
	if err := json.Unmarshal(bytes.TrimSpace(data), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}
	if err := validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPayload, validation.Describe(err))
	}

	ts := received.UTC()
	if msg.Timestamp != nil && strings.TrimSpace(*msg.Timestamp) != "" {
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*msg.Timestamp))
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q is not RFC 3339", ErrUnsupportedPayload, *msg.Timestamp)
		}
		ts = parsed.UTC()
	}

	return &measurement.Measurement{
		SensorID:    msg.SensorID,
		Temperature: *msg.Temperature,
		Humidity:    msg.Humidity,
		Timestamp:   &ts,
	}, nil
}
