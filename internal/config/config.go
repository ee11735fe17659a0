// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings of the relay server. Every field can be
// set through a CHATR_-prefixed environment variable.
type Config struct {
	// ListenAddr is the TCP listen address.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:"0.0.0.0:3030"`
	// WSListenAddr enables the WebSocket listener when non-empty.
	WSListenAddr string `envconfig:"WS_LISTEN_ADDR"`
	// TLSCertFile and TLSKeyFile enable TLS on the TCP listener when both
	// are set.
	TLSCertFile string `envconfig:"TLS_CERT_FILE"`
	TLSKeyFile  string `envconfig:"TLS_KEY_FILE"`
	// MaxUsers caps concurrent users; it also sizes the directory
	// submission queue and every per-user mailbox.
	MaxUsers int    `envconfig:"MAX_USERS" default:"50"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("chatr", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.MaxUsers <= 0 {
		return Config{}, fmt.Errorf("CHATR_MAX_USERS must be positive, got %d", cfg.MaxUsers)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return Config{}, fmt.Errorf("CHATR_TLS_CERT_FILE and CHATR_TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

// TLSEnabled reports whether the TCP listener should be TLS-wrapped.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Level parses LogLevel into a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
