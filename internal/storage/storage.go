// Package storage opens the measurement store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/config"
	"github.com/cosyhome/cosy/internal/database"
	"github.com/cosyhome/cosy/internal/measurement"
)

// Store is an open measurement repository plus whatever must be released
// with it.
type Store struct {
	measurement.Repository
	Driver string
	close  func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store named by cfg.StoreDriver. For postgres the
// schema is created if missing.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		log.Warn().Msg("using in-memory measurement store, data is lost on restart")
		return &Store{Repository: measurement.NewInMemoryRepository(), Driver: config.StoreMemory}, nil

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().
			Str("host", cfg.Postgres.Host).
			Int("port", cfg.Postgres.Port).
			Str("database", cfg.Postgres.Database).
			Msg("database connected")
		return &Store{
			Repository: measurement.NewPostgresRepository(pool),
			Driver:     config.StorePostgres,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		client, err := database.ConnectMongo(connectCtx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("host", cfg.Mongo.Host).
			Str("database", cfg.Mongo.Database).
			Str("collection", cfg.Mongo.Collection).
			Msg("mongodb connected")
		return &Store{
			Repository: measurement.NewMongoRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection),
			Driver:     config.StoreMongo,
			close:      client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
