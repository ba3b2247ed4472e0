// Package config loads runtime configuration from the environment. Defaults
// suit a single-household deployment on localhost.
package config

import (
	"fmt"
	"net"
	"os"
)

type Config struct {
	// Bind is the host:port the HTTP server listens on.
	Bind string
	// DBPath is the SQLite database file; created if missing.
	DBPath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from CHORDLE_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Bind:     getEnv("CHORDLE_BIND", "127.0.0.1:8080"),
		DBPath:   getEnv("CHORDLE_DB_PATH", "chordle.db"),
		LogLevel: getEnv("CHORDLE_LOG_LEVEL", "info"),
	}

	if _, _, err := net.SplitHostPort(cfg.Bind); err != nil {
		return nil, fmt.Errorf("CHORDLE_BIND %q is not host:port: %w", cfg.Bind, err)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("CHORDLE_DB_PATH must not be empty")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
