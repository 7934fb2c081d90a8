package measurement

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and local development.
type InMemoryRepository struct {
	mu           sync.RWMutex
	measurements []*Measurement
}

// NewInMemoryRepository creates a new in-memory measurement repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Latest returns the most recent measurement.
func (r *InMemoryRepository) Latest(_ context.Context) (*Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Measurement
	for _, m := range r.measurements {
		if latest == nil || m.newer(latest) {
			latest = m
		}
	}
	if latest == nil {
		return nil, ErrNoMeasurement
	}

	// Return a copy
	cpy := *latest
	return &cpy, nil
}

// Save stores a copy of the measurement.
func (r *InMemoryRepository) Save(_ context.Context, m *Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *m
	r.measurements = append(r.measurements, &cpy)
	return nil
}

// Ping always succeeds.
func (r *InMemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored measurements.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.measurements)
}
