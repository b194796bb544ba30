// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from OBLOG_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"oblog-development-secret-change-me",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"OBLOG_DB_PATH" envDefault:"./data/oblog.db"`
	SessionSecret string `env:"OBLOG_SESSION_SECRET,required"`
	ServerHost    string `env:"OBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OBLOG_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OBLOG_ENV" envDefault:"development"`
	LogLevel      string `env:"OBLOG_LOG_LEVEL" envDefault:"info"`

	// Sessions
	SessionLifetime    time.Duration `env:"OBLOG_SESSION_LIFETIME" envDefault:"24h"`
	SessionIdleTimeout time.Duration `env:"OBLOG_SESSION_IDLE_TIMEOUT" envDefault:"0"`

	// Origins allowed to make cross-origin state-changing requests, e.g. a separately hosted frontend.
	TrustedOrigins []string `env:"OBLOG_TRUSTED_ORIGINS" envSeparator:","`

	// Login protection
	LoginMaxAttempts int           `env:"OBLOG_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginLockout     time.Duration `env:"OBLOG_LOGIN_LOCKOUT" envDefault:"15m"`
	AuthRateLimit    float64       `env:"OBLOG_AUTH_RATE_LIMIT" envDefault:"0.5"` // requests per second per IP
	AuthRateBurst    int           `env:"OBLOG_AUTH_RATE_BURST" envDefault:"10"`

	RequestTimeout time.Duration `env:"OBLOG_REQUEST_TIMEOUT" envDefault:"30s"`

	// Events older than this are pruned at startup; zero keeps everything.
	EventRetention time.Duration `env:"OBLOG_EVENT_RETENTION" envDefault:"2160h"`

	// Seeding configuration
	DoSeed bool `env:"OBLOG_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("OBLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OBLOG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OBLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("OBLOG_LOGIN_MAX_ATTEMPTS must be at least 1, got %d", cfg.LoginMaxAttempts)
	}
	if cfg.AuthRateLimit <= 0 || cfg.AuthRateBurst < 1 {
		return nil, fmt.Errorf("OBLOG_AUTH_RATE_LIMIT and OBLOG_AUTH_RATE_BURST must be positive")
	}

	for i, origin := range cfg.TrustedOrigins {
		cfg.TrustedOrigins[i] = strings.TrimSpace(origin)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
