package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "fake-super-secret-token", cfg.Auth.ExpectedToken)
	assert.Equal(t, "fake-super-secret-key", cfg.Auth.ExpectedKey)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
}

func TestLoadConfig_NestedEnvKeys(t *testing.T) {
	t.Setenv("TOUR_SERVER__PORT", "9090")
	t.Setenv("TOUR_SERVER__READ_TIMEOUT", "12")
	t.Setenv("TOUR_PRIMARY__ENV", "production")
	t.Setenv("TOUR_AUTH__EXPECTED_TOKEN", "other-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 12, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.Equal(t, "other-token", cfg.Auth.ExpectedToken)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("TOUR_STORE__BACKEND", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_PostgresNeedsDatabase(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendPostgres

	assert.Error(t, cfg.Validate())

	cfg.Database.Host = "localhost"
	cfg.Database.User = "tour"
	cfg.Database.Name = "tour"
	assert.NoError(t, cfg.Validate())
}

func TestObservability_LogLevelDefaults(t *testing.T) {
	obs := DefaultObservabilityConfig()
	obs.Logging.Level = ""

	obs.Environment = "production"
	assert.Equal(t, "info", obs.GetLogLevel())

	obs.Environment = "development"
	assert.Equal(t, "debug", obs.GetLogLevel())

	obs.Logging.Level = "warn"
	assert.Equal(t, "warn", obs.GetLogLevel())
}

func TestObservability_Validate(t *testing.T) {
	obs := DefaultObservabilityConfig()
	require.NoError(t, obs.Validate())

	obs.Logging.Level = "loud"
	assert.Error(t, obs.Validate())

	obs = DefaultObservabilityConfig()
	obs.HealthChecks.Timeout = 10 * time.Millisecond
	assert.Error(t, obs.Validate())
}
