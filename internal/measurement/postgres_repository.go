package measurement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL measurement repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Latest returns the most recent measurement.
func (r *PostgresRepository) Latest(ctx context.Context) (*Measurement, error) {
	query := `
		SELECT id, sensor_id, temperature, humidity, recorded_at, created_at
		FROM measurements
		ORDER BY recorded_at DESC NULLS LAST, created_at DESC
		LIMIT 1
	`

	var m Measurement
	err := r.pool.QueryRow(ctx, query).Scan(
		&m.ID,
		&m.SensorID,
		&m.Temperature,
		&m.Humidity,
		&m.Timestamp,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoMeasurement
		}
		return nil, err
	}

	return &m, nil
}

// Save inserts a new measurement.
func (r *PostgresRepository) Save(ctx context.Context, m *Measurement) error {
	query := `
		INSERT INTO measurements (id, sensor_id, temperature, humidity, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.SensorID,
		m.Temperature,
		m.Humidity,
		m.Timestamp,
		m.CreatedAt,
	)
	return err
}

// Ping checks the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
