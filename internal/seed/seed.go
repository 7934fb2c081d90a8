// Package seed loads sample readings from YAML and records them.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cosyhome/cosy/internal/measurement"
	"github.com/cosyhome/cosy/internal/validation"
)

//go:embed default.yaml
var defaultReadings []byte

// File is the YAML document layout.
type File struct {
	Readings []Reading `yaml:"readings" validate:"dive"`
}

// Reading is one sample. Timestamp is optional.
type Reading struct {
	SensorID    string     `yaml:"sensorId"`
	Temperature *float64   `yaml:"temperature" validate:"required,finite"`
	Humidity    *float64   `yaml:"humidity" validate:"omitempty,finite,min=0,max=100"`
	Timestamp   *time.Time `yaml:"timestamp"`
}

// Recorder stores one measurement.
type Recorder interface {
	Record(ctx context.Context, m *measurement.Measurement) error
}

// Default returns the embedded development readings.
func Default() ([]*measurement.Measurement, error) {
	return Load(bytes.NewReader(defaultReadings))
}

// Load parses and validates a readings file.
func Load(r io.Reader) ([]*measurement.Measurement, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse readings: %w", err)
	}
	if err := validation.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid readings: %s", validation.Describe(err))
	}

	out := make([]*measurement.Measurement, 0, len(f.Readings))
	for _, rd := range f.Readings {
		m := &measurement.Measurement{
			Temperature: *rd.Temperature,
			Humidity:    rd.Humidity,
		}
		if rd.SensorID != "" {
			sensorID := rd.SensorID
			m.SensorID = &sensorID
		}
		if rd.Timestamp != nil {
			ts := rd.Timestamp.UTC()
			m.Timestamp = &ts
		}
		out = append(out, m)
	}
	return out, nil
}

// Run records every reading in order and returns how many were stored.
func Run(ctx context.Context, rec Recorder, readings []*measurement.Measurement) (int, error) {
	for i, m := range readings {
		if err := rec.Record(ctx, m); err != nil {
			return i, fmt.Errorf("record reading %d: %w", i, err)
		}
	}
	return len(readings), nil
}
