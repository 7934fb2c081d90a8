package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	// URI overrides every other connection field when set.
	URI        string
	User       string
	Password   string
	Host       string `validate:"required_without=URI"`
	Port       string `validate:"omitempty,numeric"`
	Database   string `validate:"required"`
	AuthDB     string
	Collection string `validate:"required"`

	// ServerSelectionTimeout bounds how long Connect waits for a server.
	ServerSelectionTimeout time.Duration
}

// MongoConfigFromEnv creates a MongoConfig from the MONGODB_* variables.
func MongoConfigFromEnv() MongoConfig {
	timeout, _ := time.ParseDuration(getEnvOrDefault("MONGODB_SERVER_SELECTION_TIMEOUT", "5s"))

	return MongoConfig{
		URI:                    getEnvOrDefault("MONGODB_URI", ""),
		User:                   getEnvOrDefault("MONGODB_USER", "user"),
		Password:               getEnvOrDefault("MONGODB_PASSWORD", "password"),
		Host:                   getEnvOrDefault("MONGODB_HOST", "mongodb"),
		Port:                   getEnvOrDefault("MONGODB_PORT", "27017"),
		Database:               getEnvOrDefault("MONGODB_DB", "weather"),
		AuthDB:                 getEnvOrDefault("MONGODB_AUTH_DB", "admin"),
		Collection:             getEnvOrDefault("MONGODB_COLLECTION", "measurements"),
		ServerSelectionTimeout: timeout,
	}
}

// ConnectionString returns the MongoDB URI.
func (c MongoConfig) ConnectionString() string {
	if c.URI != "" {
		return c.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	if c.AuthDB != "" {
		u.RawQuery = url.Values{"authSource": []string{c.AuthDB}}.Encode()
	}
	return u.String()
}

// ConnectMongo creates a MongoDB client and verifies connectivity.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ServerSelectionTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.ConnectionString()).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
