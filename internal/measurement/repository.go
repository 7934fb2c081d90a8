package measurement

import "context"

// Repository defines the persistence capability the service needs.
type Repository interface {
	// Latest returns the most recent measurement ordered by timestamp
	// descending. Returns ErrNoMeasurement if the store is empty.
	Latest(ctx context.Context) (*Measurement, error)

	// Save stores a new measurement.
	Save(ctx context.Context, m *Measurement) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
