package widget

import (
	"fmt"
	"os"
	"strings"
)

// Endpoint describes where the widget reaches the backend. URL wins when
// set; otherwise the address is assembled from Protocol, Host and Port.
type Endpoint struct {
	URL      string
	Protocol string
	Host     string
	Port     string
}

// EndpointFromEnv reads COSY_API_URL, COSY_API_PROTOCOL, COSY_API_HOST and
// COSY_API_PORT.
func EndpointFromEnv() Endpoint {
	return Endpoint{
		URL:      os.Getenv("COSY_API_URL"),
		Protocol: os.Getenv("COSY_API_PROTOCOL"),
		Host:     os.Getenv("COSY_API_HOST"),
		Port:     os.Getenv("COSY_API_PORT"),
	}
}

// BaseURL resolves the backend base URL without a trailing slash.
func (e Endpoint) BaseURL() string {
	if u := strings.TrimSpace(e.URL); u != "" {
		return strings.TrimRight(u, "/")
	}

	protocol := orDefault(e.Protocol, "http")
	host := orDefault(e.Host, "localhost")
	port := orDefault(e.Port, "3001")
	return fmt.Sprintf("%s://%s:%s", strings.TrimSuffix(protocol, ":"), host, port)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
