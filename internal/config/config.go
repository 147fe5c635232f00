package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates everything the client needs to reach a backend.
type Config struct {
	// APIBaseURL is the REST entry point, including the /api prefix.
	APIBaseURL string
	// RealtimeURL is the WebSocket endpoint, without the token parameter.
	RealtimeURL string
	// HTTPTimeout bounds each individual request.
	HTTPTimeout time.Duration
	// SessionFile overrides the default session store location when set.
	SessionFile string
}

// Load reads configuration from environment variables, falling back to the
// local development backend.
func Load() (*Config, error) {
	timeout, err := parseOptionalIntEnv("HOYO_HTTP_TIMEOUT")
	if err != nil {
		return nil, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		if *timeout < 1 {
			return nil, fmt.Errorf("invalid HOYO_HTTP_TIMEOUT value: %d", *timeout)
		}
		timeoutSeconds = *timeout
	}

	apiURL := getEnvOrDefault("HOYO_API_URL", "http://localhost:8000/api")
	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		return nil, fmt.Errorf("invalid HOYO_API_URL value: %q", apiURL)
	}

	wsURL := getEnvOrDefault("HOYO_WS_URL", "ws://localhost:8000/ws")
	if !strings.HasPrefix(wsURL, "ws://") && !strings.HasPrefix(wsURL, "wss://") {
		return nil, fmt.Errorf("invalid HOYO_WS_URL value: %q", wsURL)
	}

	return &Config{
		APIBaseURL:  strings.TrimRight(apiURL, "/"),
		RealtimeURL: strings.TrimRight(wsURL, "/"),
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,
		SessionFile: strings.TrimSpace(os.Getenv("HOYO_SESSION_FILE")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
