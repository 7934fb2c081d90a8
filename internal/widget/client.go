// Package widget is the client side of the temperature endpoint: it fetches
// the latest reading from the backend and decodes it defensively.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cosyhome/cosy/internal/climate"
	"github.com/cosyhome/cosy/internal/provider/resilience"
)

// TemperaturePath is the backend route serving the latest reading.
const TemperaturePath = "/api/temperature"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// ErrUnexpectedStatus is returned when the backend answers with a non-2xx code.
var ErrUnexpectedStatus = errors.New("unexpected backend status")

// StatusError carries the backend status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Backend responded with status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Resilience resilience.ClientConfig
	Logger     zerolog.Logger
}

// Client fetches readings from the cosy backend.
type Client struct {
	baseURL string
	http    *resilience.Client
	logger  zerolog.Logger
}

// NewClient creates a widget client. A zero Resilience config uses
// resilience.DefaultClientConfig("cosy-backend"). Requests carry trace
// context unless a Transport is supplied.
func NewClient(cfg Config) *Client {
	rc := cfg.Resilience
	if rc.Name == "" {
		rc = resilience.DefaultClientConfig("cosy-backend")
		rc.Logger = cfg.Logger
	}
	if rc.Transport == nil {
		rc.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	return &Client{
		baseURL: Endpoint{URL: cfg.BaseURL}.BaseURL(),
		http:    resilience.NewClient(rc),
		logger:  cfg.Logger,
	}
}

// FetchTemperature requests the latest reading and decodes it. Non-2xx
// responses yield a *StatusError; malformed bodies yield a
// *climate.DecodeError.
func (c *Client) FetchTemperature(ctx context.Context) (*climate.TemperatureResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+TemperaturePath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch temperature: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)) //nolint:errcheck // body unused
		c.logger.Warn().Int("status", resp.StatusCode).Msg("backend returned non-success status")
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	reading, err := climate.DecodeJSON(body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("backend returned an invalid reading")
		return nil, err
	}
	return reading, nil
}
