// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults so a bare environment runs the in-memory store.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the TOUR_ prefix. After the prefix is removed the
	key is lowercased and a double underscore marks nesting, so

	  TOUR_SERVER__PORT         -> server.port         -> Config.Server.Port
	  TOUR_STORE__BACKEND       -> store.backend       -> Config.Store.Backend
	  TOUR_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "TOUR_"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the root configuration object for the application.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// StoreConfig selects where the item store lives.
type StoreConfig struct {
	Backend   string `koanf:"backend" validate:"required,oneof=memory redis postgres"`
	KeyPrefix string `koanf:"key_prefix"`
	Seed      bool   `koanf:"seed"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only required when the postgres store backend is selected.
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address"`
}

// AuthConfig holds the values the stub header checks compare against.
// These are not secrets; the checks are demonstrations.
type AuthConfig struct {
	ExpectedToken string `koanf:"expected_token" validate:"required"`
	ExpectedKey   string `koanf:"expected_key" validate:"required"`
}

// IntegrationConfig configures the optional welcome-email pipeline.
type IntegrationConfig struct {
	JobsEnabled  bool   `koanf:"jobs_enabled"`
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// Default returns a configuration that runs without any external service.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Backend:   BackendMemory,
			KeyPrefix: "items:",
			Seed:      true,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 300,
		},
		Redis: RedisConfig{Address: "localhost:6379"},
		Auth: AuthConfig{
			ExpectedToken: "fake-super-secret-token",
			ExpectedKey:   "fake-super-secret-key",
		},
		Integration: IntegrationConfig{
			EmailFrom: "Request Tour <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// Default(), validates it, applies observability defaults and returns it.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()

	// Keys missing from the environment keep their default values.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags, backend-specific requirements and the
// observability block. A nil Observability is replaced by defaults.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("database host, user and name are required for the %s store", BackendPostgres)
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the %s store", BackendRedis)
		}
	}

	if c.Integration.JobsEnabled && c.Redis.Address == "" {
		return fmt.Errorf("redis address is required when jobs are enabled")
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.Backend == BackendRedis || c.Integration.JobsEnabled
}
