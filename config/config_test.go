package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("DRAW_TIMEZONE", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, int64(5000), cfg.LockTimeoutMillis())
	assert.Equal(t, time.UTC, cfg.DrawTimezone)
	assert.Equal(t, "luckydraw.draw.decided", cfg.NATSSubject)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432")
	t.Setenv("DATABASE_NAME", "luckydraw")
	t.Setenv("LOCK_TIMEOUT", "750ms")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("DRAW_TIMEZONE", "Pacific/Auckland")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Pacific/Auckland", cfg.DrawTimezone.String())
	assert.Equal(t, "postgres://u:p@localhost:5432/luckydraw?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"ENVIRONMENT": "production", "DATABASE_URL": ""}},
		{"bad lock timeout", map[string]string{"ENVIRONMENT": "test", "LOCK_TIMEOUT": "soon"}},
		{"negative lock timeout", map[string]string{"ENVIRONMENT": "test", "LOCK_TIMEOUT": "-1s"}},
		{"bad timezone", map[string]string{"ENVIRONMENT": "test", "DRAW_TIMEZONE": "Mars/Olympus"}},
		{"bad log format", map[string]string{"ENVIRONMENT": "test", "LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	testConfig := NewTestConfig()
	testConfig.HTTPAddr = ":9999"
	SetTestConfig(testConfig)

	assert.Same(t, testConfig, Get())
}
