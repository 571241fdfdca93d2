package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
backend_url: https://file.example.com
session_timeout: 10m
`), 0o644))

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, "https://file.example.com", cfg.BackendURL)
		assert.Equal(t, 10*time.Minute, cfg.SessionTimeout)
		assert.Equal(t, 5*time.Minute, cfg.SweepInterval, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PORTFOLIO_BACKEND_URL", "https://env.example.com")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", cfg.BackendURL)
	})

	t.Run("bare PORT does not beat configured port", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Port)
	})
}

func TestLoadBarePort(t *testing.T) {
	t.Setenv("PORT", "7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, ":7000", cfg.Addr())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"bad mode", func(c *Config) { c.Mode = "prod" }},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero timeout", func(c *Config) { c.SessionTimeout = 0 }},
		{"zero sweep", func(c *Config) { c.SweepInterval = 0 }},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.BackendURL = ""
	assert.NoError(t, cfg.Validate(), "backend url is not validated")
}
