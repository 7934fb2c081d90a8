package widget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosyhome/cosy/internal/widget"
)

func TestEndpoint_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint widget.Endpoint
		want     string
	}{
		{"defaults", widget.Endpoint{}, "http://localhost:3001"},
		{"explicit url", widget.Endpoint{URL: "https://cosy.example/", Host: "ignored"}, "https://cosy.example"},
		{"many trailing slashes", widget.Endpoint{URL: "http://api:3000///"}, "http://api:3000"},
		{"parts", widget.Endpoint{Protocol: "https", Host: "backend", Port: "8443"}, "https://backend:8443"},
		{"protocol with colon", widget.Endpoint{Protocol: "https:", Host: "backend"}, "https://backend:3001"},
		{"blank url falls back", widget.Endpoint{URL: "  ", Port: "3000"}, "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoint.BaseURL())
		})
	}
}

func TestEndpointFromEnv(t *testing.T) {
	t.Setenv("COSY_API_URL", "")
	t.Setenv("COSY_API_PROTOCOL", "")
	t.Setenv("COSY_API_HOST", "backend")
	t.Setenv("COSY_API_PORT", "3000")

	assert.Equal(t, "http://backend:3000", widget.EndpointFromEnv().BaseURL())
}
