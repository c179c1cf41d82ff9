package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the CLI, populated from environment
// variables. Plot configuration is separate (see internal/plotconfig); this
// covers only ambient concerns.
type Config struct {
	LogLevel  string
	LogFormat string

	// DebugAddr enables the /healthz + /metrics server when non-empty.
	// Useful when processing large cruise datasets in batch.
	DebugAddr       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout := 5 * time.Second
	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, errors.New("invalid SHUTDOWN_TIMEOUT: must be a positive duration")
		}
		shutdownTimeout = d
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		DebugAddr:       os.Getenv("HYDRA_DEBUG_ADDR"),
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.New("invalid LOG_FORMAT: must be \"text\" or \"json\"")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
