// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DataDir       string `env:"FOLIO_DATA_DIR" envDefault:"./data"`
	SessionSecret string `env:"FOLIO_SESSION_SECRET,required"`
	ServerHost    string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel      string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`

	// Admin credentials. A hash, when set, wins over the plain password.
	AdminPassword     string `env:"FOLIO_ADMIN_PASSWORD" envDefault:"yekta2025"`
	AdminPasswordHash string `env:"FOLIO_ADMIN_PASSWORD_HASH"`

	Locales       []string `env:"FOLIO_LOCALES" envDefault:"en,fr,fa" envSeparator:","`
	DefaultLocale string   `env:"FOLIO_DEFAULT_LOCALE" envDefault:"en"`

	RedisURL    string `env:"FOLIO_REDIS_URL"`
	CachePrefix string `env:"FOLIO_CACHE_PREFIX" envDefault:"folio:"`
	CacheTTL    int    `env:"FOLIO_CACHE_TTL" envDefault:"300"` // seconds

	// Watch enables cache invalidation on hand edits of the data files.
	Watch bool `env:"FOLIO_WATCH" envDefault:"true"`

	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxy bool `env:"FOLIO_TRUST_PROXY" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheDuration returns the content cache TTL.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// UsesDefaultPassword reports whether the built-in admin password is active.
func (c Config) UsesDefaultPassword() bool {
	return c.AdminPasswordHash == "" && c.AdminPassword == "yekta2025"
}

// DataPath joins name onto the data directory.
func (c Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// MinSessionSecretLength is the minimum length of FOLIO_SESSION_SECRET.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	if slices.Contains(knownWeakSecrets, cfg.SessionSecret) {
		return nil, fmt.Errorf("FOLIO_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := cfg.validateLocales(); err != nil {
		return nil, err
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("FOLIO_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("FOLIO_SERVER_PORT out of range: %d", cfg.ServerPort)
	}

	return cfg, nil
}

func (c *Config) validateLocales() error {
	locales := make([]string, 0, len(c.Locales))
	for _, l := range c.Locales {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("FOLIO_LOCALES: invalid locale %q: %w", l, err)
		}
		locales = append(locales, l)
	}
	if len(locales) == 0 {
		return fmt.Errorf("FOLIO_LOCALES must name at least one locale")
	}
	if !slices.Contains(locales, c.DefaultLocale) {
		return fmt.Errorf("FOLIO_DEFAULT_LOCALE %q is not listed in FOLIO_LOCALES %v", c.DefaultLocale, locales)
	}
	c.Locales = locales
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes.
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
