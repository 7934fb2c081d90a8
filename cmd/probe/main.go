// Package main fetches the current reading from the cosy API the way the
// widget does and prints it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cosyhome/cosy/internal/widget"
)

func main() {
	baseURL := flag.String("url", "", "API base URL (default: API_BASE_URL, then COSY_API_* parts)")
	asJSON := flag.Bool("json", false, "print the decoded reading as JSON")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "cosy-probe").
		Logger()

	url := *baseURL
	if url == "" {
		url = os.Getenv("API_BASE_URL")
	}
	if url == "" {
		url = widget.EndpointFromEnv().BaseURL()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := widget.NewClient(widget.Config{BaseURL: url, Logger: log})
	reading, err := client.FetchTemperature(ctx)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("could not fetch temperature")
		cancel()
		os.Exit(1)
	}

	if *asJSON {
		out, err := json.MarshalIndent(reading, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("could not encode reading")
			cancel()
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(widget.Format(reading))
}
