package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "USE_DISK", "DB_PATH", "ADMIN_TOKEN", "ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Empty(t, cfg.AdminToken)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_StorageSelection(t *testing.T) {
	t.Run("use disk", func(t *testing.T) {
		t.Setenv("USE_DISK", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, defaultDiskPath, cfg.DBPath)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("USE_DISK", "true")
		t.Setenv("DB_PATH", "/var/lib/scrollstack/data.db")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/scrollstack/data.db", cfg.DBPath)
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "shouting")
		_, err := Load()
		assert.Error(t, err)
	})
}
