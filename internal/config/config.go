// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config carries the runtime settings for the reservation service. All
// variables share the RESERVATIONS_ prefix.
type Config struct {
	HTTPPort          int    `envconfig:"HTTP_PORT" default:"8080"`
	DBDriver          string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLiteDSN         string `envconfig:"SQLITE_DSN" default:"file:reservations.db"`
	PostgresDSN       string `envconfig:"POSTGRES_DSN"`
	IdentitySecret    string `envconfig:"IDENTITY_SECRET" required:"true"`
	IdentityCacheSize int    `envconfig:"IDENTITY_CACHE_SIZE" default:"256"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("reservations", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("config: RESERVATIONS_SQLITE_DSN must be set for the sqlite driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("config: RESERVATIONS_POSTGRES_DSN must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unsupported RESERVATIONS_DB_DRIVER %q", c.DBDriver)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("config: RESERVATIONS_HTTP_PORT %d is out of range", c.HTTPPort)
	}
	return nil
}
