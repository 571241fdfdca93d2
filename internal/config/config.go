// Package config loads server settings from defaults, an optional YAML file
// and PORTFOLIO_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PORTFOLIO_"

type Config struct {
	Port string `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode"`
	// BackendURL is the base URL contact messages are posted to. It is not
	// validated; a bad value shows up as a failed submission.
	BackendURL  string `koanf:"backend_url"`
	ContentPath string `koanf:"content_path"`
	ResumePath  string `koanf:"resume_path"`
	LogLevel    string `koanf:"log_level"`

	SessionTimeout time.Duration `koanf:"session_timeout"`
	SweepInterval  time.Duration `koanf:"sweep_interval"`
	HTTPTimeout    time.Duration `koanf:"http_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:           "8080",
		Mode:           "release",
		ResumePath:     "static/resume.pdf",
		LogLevel:       "info",
		SessionTimeout: 30 * time.Minute,
		SweepInterval:  5 * time.Minute,
		HTTPTimeout:    10 * time.Second,
	}
}

// Load reads path if it exists, then overlays PORTFOLIO_* variables
// (PORTFOLIO_BACKEND_URL -> backend_url). A bare PORT variable is honored
// when PORTFOLIO_PORT is unset.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && !k.Exists("port") {
		cfg.Port = port
	}
	return cfg, nil
}

var validModes = map[string]bool{
	"debug":   true,
	"release": true,
	"test":    true,
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of debug, release, test", c.Mode)
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
