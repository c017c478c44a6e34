package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the service's environment variables:
// REPORTS_SERVER_ADDR -> server.addr, REPORTS_JWT_ACCESS_SECRET ->
// jwt.access_secret.
const envPrefix = "REPORTS_"

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type PostgresConfig struct {
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gt=0"`
}

type JWTConfig struct {
	AccessSecret  string        `koanf:"access_secret" validate:"required,min=32"`
	RefreshSecret string        `koanf:"refresh_secret" validate:"required,min=32,nefield=AccessSecret"`
	AccessTTL     time.Duration `koanf:"access_ttl" validate:"gt=0"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl" validate:"gt=0"`
}

type CacheConfig struct {
	// ReportTTL covers report responses; VolatileTTL covers the
	// error-log endpoints where staleness hurts.
	ReportTTL     time.Duration `koanf:"report_ttl" validate:"gt=0"`
	VolatileTTL   time.Duration `koanf:"volatile_ttl" validate:"gt=0"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gt=0"`
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Postgres PostgresConfig `koanf:"postgres"`
	JWT      JWTConfig      `koanf:"jwt"`
	Cache    CacheConfig    `koanf:"cache"`
	LogLevel string         `koanf:"log_level" validate:"oneof=trace debug info warn error"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			ReportTTL:     5 * time.Minute,
			VolatileTTL:   30 * time.Second,
			SweepInterval: time.Minute,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults overridden by
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	sections := []string{"server", "postgres", "jwt", "cache"}
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		for _, sec := range sections {
			if strings.HasPrefix(key, sec+"_") {
				return sec + "." + key[len(sec)+1:]
			}
		}
		// Top-level keys such as log_level keep their underscores.
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
