package config

import (
	"testing"
	"time"

	"gohstat/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HSTAT_N_MAX", "HSTAT_EPS", "HSTAT_WORKERS", "HSTAT_MAX_N_MAX", "HSTAT_MAX_WORKERS", "DATABASE_URL", "PORT", "LOG_LEVEL",
		"DB_MAX_OPEN_CONNS", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT", "HTTP_MAX_BODY_BYTES"} {
		t.Setenv(key, "")
	}

	config, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, EngineConfig{NMax: 500, Eps: 1e-10, Workers: 1, MaxNMax: 5000, MaxWorkers: 64}, config.Engine)
	assert.False(t, config.Database.Enabled())
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, "INFO", config.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HSTAT_N_MAX", "200")
	t.Setenv("HSTAT_EPS", "0")
	t.Setenv("HSTAT_WORKERS", "4")
	t.Setenv("HSTAT_MAX_N_MAX", "1000")
	t.Setenv("HSTAT_MAX_WORKERS", "8")
	t.Setenv("DATABASE_URL", "postgres://localhost/hstat")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_READ_TIMEOUT", "1m")

	config, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, EngineConfig{NMax: 200, Eps: 0, Workers: 4, MaxNMax: 1000, MaxWorkers: 8}, config.Engine)
	assert.True(t, config.Database.Enabled())
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, time.Minute, config.Server.ReadTimeout)
	assert.Equal(t, "DEBUG", config.LogLevel)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"n_max not a number", "HSTAT_N_MAX", "many"},
		{"n_max zero", "HSTAT_N_MAX", "0"},
		{"eps negative", "HSTAT_EPS", "-1e-3"},
		{"eps NaN", "HSTAT_EPS", "NaN"},
		{"workers zero", "HSTAT_WORKERS", "0"},
		{"n_max above its cap", "HSTAT_MAX_N_MAX", "100"},
		{"workers cap not a number", "HSTAT_MAX_WORKERS", "lots"},
		{"workers cap zero", "HSTAT_MAX_WORKERS", "0"},
		{"bad duration", "HTTP_WRITE_TIMEOUT", "soon"},
		{"bad level", "LOG_LEVEL", "VERBOSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
