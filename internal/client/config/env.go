package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAPIBaseURL = "CHATDESK_API_BASE_URL"
	EnvAPITimeout = "CHATDESK_API_TIMEOUT"
)

// parseEnv overlays the API settings from the environment.
// CHATDESK_API_TIMEOUT is either a Go duration ("15s") or a whole number of
// milliseconds ("15000"). Panics on an unparsable timeout.
func parseEnv(cfg *Config) {
	setString(&cfg.APIBaseURL, os.Getenv(EnvAPIBaseURL))

	raw := os.Getenv(EnvAPITimeout)
	if raw == "" {
		return
	}
	d, err := parseTimeout(raw)
	if err != nil {
		panic(err)
	}
	cfg.APITimeout = d
}

func parseTimeout(raw string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", EnvAPITimeout, raw, err)
	}
	return d, nil
}
