// Package main provides the ingest worker: it consumes sensor readings from
// Pub/Sub and/or MQTT and stores them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cosyhome/cosy/internal/api/handler"
	"github.com/cosyhome/cosy/internal/api/middleware"
	"github.com/cosyhome/cosy/internal/climate"
	"github.com/cosyhome/cosy/internal/config"
	"github.com/cosyhome/cosy/internal/ingest"
	"github.com/cosyhome/cosy/internal/measurement"
	"github.com/cosyhome/cosy/internal/storage"
	"github.com/cosyhome/cosy/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// subscriber is a running message source.
type subscriber interface {
	Start(ctx context.Context) error
	Close() error
}

func main() {
	const serviceName = "cosy-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.PubSub.Enabled() && !cfg.MQTT.Enabled() {
		log.Fatal().Msg("no message source configured, set PUBSUB_PROJECT_ID or MQTT_BROKER")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open measurement store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if closeErr := store.Close(closeCtx); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close measurement store")
		}
	}()

	service := measurement.NewService(measurement.ServiceConfig{
		Repository: store,
		Deriver:    climate.NewDeriver(cfg.Threshold),
		Logger:     log,
	})
	ingestHandler := ingest.NewHandler(service, log)

	var subscribers []subscriber
	if cfg.PubSub.Enabled() {
		sub, err := ingest.NewPubSubSubscriber(ctx, ingest.PubSubConfig{
			ProjectID:    cfg.PubSub.ProjectID,
			Subscription: cfg.PubSub.Subscription,
			Handler:      ingestHandler,
			Logger:       log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub subscriber")
		}
		subscribers = append(subscribers, sub)
	}
	if cfg.MQTT.Enabled() {
		subscribers = append(subscribers, ingest.NewMQTTSubscriber(ingest.MQTTConfig{
			BrokerURL: cfg.MQTT.BrokerURL(),
			Topic:     cfg.MQTT.Topic,
			ClientID:  cfg.MQTT.ClientID,
			Username:  cfg.MQTT.Username,
			Password:  cfg.MQTT.Password,
			Handler:   ingestHandler,
			Logger:    log,
		}))
	}

	// Health endpoints for the container platform.
	ops := handler.NewOpsHandler(Version, BuildTime, service, log)
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recovery(log))
	mux.Get("/health", ops.HealthCheck)
	mux.Get("/ready", ops.ReadinessCheck)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	for _, sub := range subscribers {
		g.Go(func() error {
			return sub.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down worker")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var errs []error
		for _, sub := range subscribers {
			errs = append(errs, sub.Close())
		}
		errs = append(errs, server.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("worker stopped with error")
		return
	}
	log.Info().Msg("worker stopped")
}
