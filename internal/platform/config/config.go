// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (registry, session store) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Enumerations

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendMemory = "memory"
	BackendRedis  = "redis"

	// DevSessionSecret is the fallback signing secret outside production.
	DevSessionSecret = "dev_secret"
)

// # Configuration Schema

// Config holds all runtime configuration for the solosession server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// User registry
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH"     envDefault:"./data/users.db"`

	// Session store
	SessionBackend   string        `env:"SESSION_BACKEND"    envDefault:"memory"`
	RedisURL         string        `env:"REDIS_URL"`
	UpstashRedisURL  string        `env:"UPSTASH_REDIS_URL"`
	SessionSecret    string        `env:"SESSION_SECRET"`
	SessionTTL       time.Duration `env:"SESSION_TTL"        envDefault:"8h"`
	SessionKeyPrefix string        `env:"SESSION_KEY_PREFIX" envDefault:"sess:"`

	// PublicDir holds login.html and home.html.
	PublicDir string `env:"PUBLIC_DIR" envDefault:"./public"`

	// SeedUsers is a comma separated list of usernames provisioned at startup.
	SeedUsers []string `env:"SEED_USERS" envSeparator:","`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFallbacks() {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))

	if c.RedisURL == "" {
		c.RedisURL = c.UpstashRedisURL
	}

	if c.SessionSecret == "" && !c.IsProduction() {
		c.SessionSecret = DevSessionSecret
	}
}

// Validate checks the cross-field rules the struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DATABASE_DRIVER=postgres"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when DATABASE_DRIVER=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL or UPSTASH_REDIS_URL is required when SESSION_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend))
	}

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
