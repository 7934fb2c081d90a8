// Package main loads sample readings into the configured measurement store.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/climate"
	"github.com/cosyhome/cosy/internal/config"
	"github.com/cosyhome/cosy/internal/measurement"
	"github.com/cosyhome/cosy/internal/seed"
	"github.com/cosyhome/cosy/internal/storage"
)

func main() {
	file := flag.String("file", "", "YAML readings file (default: embedded development readings)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "cosy-seed").
		Logger()

	if err := run(*file, log); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
}

func run(file string, log zerolog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	readings, err := loadReadings(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(ctx) //nolint:errcheck // process is exiting

	service := measurement.NewService(measurement.ServiceConfig{
		Repository: store,
		Deriver:    climate.NewDeriver(cfg.Threshold),
		Logger:     log,
	})

	n, err := seed.Run(ctx, service, readings)
	if err != nil {
		return err
	}

	log.Info().Int("count", n).Str("store", store.Driver).Msg("readings seeded")
	return nil
}

func loadReadings(file string) ([]*measurement.Measurement, error) {
	if file == "" {
		return seed.Default()
	}
	f, err := os.Open(file) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
