// Package api wires the cosy HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/api/handler"
	"github.com/cosyhome/cosy/internal/api/middleware"
	"github.com/cosyhome/cosy/internal/api/response"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Readings serves /api/temperature.
	Readings handler.LatestReader

	// Store backs /ready. Nil means always ready.
	Store handler.Pinger

	CORSAllowedOrigins []string

	// RateLimit overrides middleware.WidgetRateLimit for /api.
	RateLimit *middleware.RateLimitConfig
}

// NewRouter creates the chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "cosy-api"
	}

	rateLimit := middleware.WidgetRateLimit
	if cfg.RateLimit != nil {
		rateLimit = *cfg.RateLimit
	}

	// Order matters: the request id must exist before tracing and logging.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no route for "+r.URL.Path)
	})

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Store, cfg.Logger)
	temperatureHandler := handler.NewTemperatureHandler(cfg.Readings, cfg.Logger)

	r.Get("/", opsHandler.Root)
	r.Get("/health", opsHandler.HealthCheck)
	r.Get("/ready", opsHandler.ReadinessCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimit))
		r.Get("/temperature", temperatureHandler.GetTemperature)
	})

	return r
}
