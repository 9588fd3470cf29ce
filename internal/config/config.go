package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// Snapshot sink selectors.
const (
	SinkNone     = "none"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	LogLevel     string
	SnapshotSink string
	SnapshotDSN  string
}

// Load loads configuration from environment variables. Everything is
// optional: by default logging is warn-level and no snapshot sink is used.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:     os.Getenv("LOG_LEVEL"),
		SnapshotSink: os.Getenv("SNAPSHOT_SINK"),
		SnapshotDSN:  os.Getenv("SNAPSHOT_DSN"),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.SnapshotSink == "" {
		cfg.SnapshotSink = SinkNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("LOG_LEVEL must be one of debug, info, warn, error")
	}

	switch c.SnapshotSink {
	case SinkNone:
	case SinkSQLite, SinkPostgres:
		if c.SnapshotDSN == "" {
			return errors.New("SNAPSHOT_DSN is required when SNAPSHOT_SINK is " + c.SnapshotSink)
		}
	default:
		return errors.New("SNAPSHOT_SINK must be one of none, sqlite, postgres")
	}

	return nil
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
