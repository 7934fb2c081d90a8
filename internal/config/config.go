// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cosyhome/cosy/internal/climate"
	"github.com/cosyhome/cosy/internal/database"
	"github.com/cosyhome/cosy/internal/validation"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds the settings shared by the cosy binaries.
type Config struct {
	Port        string `validate:"required,numeric"`
	Environment string `validate:"required"`

	// Threshold is the comfort point passed to the status deriver.
	Threshold float64 `validate:"finite"`

	StoreDriver        string `validate:"oneof=memory postgres mongo"`
	CORSAllowedOrigins []string

	Telemetry TelemetryConfig
	Postgres  database.Config
	Mongo     database.MongoConfig
	PubSub    PubSubConfig
	MQTT      MQTTConfig

	// APIBaseURL is where the probe client reaches the API.
	APIBaseURL string `validate:"required,url"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string `validate:"required_if=Enabled true"`
}

// PubSubConfig configures the Pub/Sub ingest subscriber. Disabled when
// ProjectID is empty.
type PubSubConfig struct {
	ProjectID    string
	Subscription string `validate:"required_with=ProjectID"`
}

// Enabled reports whether Pub/Sub ingest is configured.
func (c PubSubConfig) Enabled() bool {
	return c.ProjectID != ""
}

// MQTTConfig configures the MQTT ingest subscriber. Disabled when Broker is
// empty.
type MQTTConfig struct {
	Broker   string
	Port     int    `validate:"min=1,max=65535"`
	Topic    string `validate:"required_with=Broker"`
	ClientID string `validate:"required_with=Broker"`
	Username string
	Password string
}

// Enabled reports whether MQTT ingest is configured.
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// BrokerURL returns the broker address in tcp://host:port form.
func (c MQTTConfig) BrokerURL() string {
	if strings.Contains(c.Broker, "://") {
		return c.Broker
	}
	return fmt.Sprintf("tcp://%s:%d", c.Broker, c.Port)
}

// FromEnv reads and validates the configuration.
func FromEnv() (Config, error) {
	threshold, err := parseFloat("TEMPERATURE_THRESHOLD", climate.DefaultThreshold)
	if err != nil {
		return Config{}, err
	}

	mqttPort, err := parseInt("MQTT_PORT", 1883)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:               getEnvOrDefault("APP_PORT", "3000"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		Threshold:          threshold,
		StoreDriver:        strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreMemory)),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		Telemetry: TelemetryConfig{
			Enabled:      os.Getenv("OTEL_ENABLED") == "true",
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
		Postgres: database.ConfigFromEnv(),
		Mongo:    database.MongoConfigFromEnv(),
		PubSub: PubSubConfig{
			ProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
			Subscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
		},
		MQTT: MQTTConfig{
			Broker:   os.Getenv("MQTT_BROKER"),
			Port:     mqttPort,
			Topic:    getEnvOrDefault("MQTT_TOPIC", "sensors/measurements"),
			ClientID: getEnvOrDefault("MQTT_CLIENT_ID", "cosy-worker"),
			Username: os.Getenv("MQTT_USERNAME"),
			Password: os.Getenv("MQTT_PASSWORD"),
		},
		APIBaseURL: getEnvOrDefault("API_BASE_URL", "http://localhost:3001"),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg Config) error {
	if err := validation.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %s", validation.Describe(err))
	}
	return nil
}

func parseFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
