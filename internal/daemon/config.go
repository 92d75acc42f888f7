// Package daemon manages the FitCoach daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Coach     CoachConfig     `toml:"coach"`
	Gate      GateConfig      `toml:"gate"`
	API       APIConfig       `toml:"api"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// CoachConfig points at the external coach webhook.
type CoachConfig struct {
	WebhookURL string `toml:"webhook_url" envconfig:"WEBHOOK_URL"`
	Timeout    string `toml:"timeout" envconfig:"WEBHOOK_TIMEOUT"`
}

// GateConfig controls outgoing message validation and rate limiting.
type GateConfig struct {
	MaxLength   int    `toml:"max_length" envconfig:"GATE_MAX_LENGTH"`
	Window      string `toml:"window" envconfig:"GATE_WINDOW"`
	MaxRequests int    `toml:"max_requests" envconfig:"GATE_MAX_REQUESTS"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host       string `toml:"host" envconfig:"API_HOST"`
	Port       int    `toml:"port" envconfig:"API_PORT"`
	CORSOrigin string `toml:"cors_origin" envconfig:"API_CORS_ORIGIN"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus" envconfig:"TELEMETRY_PROMETHEUS"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Coach: CoachConfig{
			Timeout: "30s",
		},
		Gate: GateConfig{
			MaxLength:   2000,
			Window:      "60s",
			MaxRequests: 10,
		},
		API: APIConfig{
			Host:       "127.0.0.1",
			Port:       8090,
			CORSOrigin: "*",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from $FITCOACH_HOME/config.toml, falling back to
// defaults, then applies FITCOACH_* environment overrides on top.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(Home(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	// Env wins over file: FITCOACH_WEBHOOK_URL, FITCOACH_API_PORT, etc.
	for _, section := range []interface{}{
		&cfg.Coach, &cfg.Gate, &cfg.API, &cfg.Telemetry, &cfg.Logging,
	} {
		if err := envconfig.Process("fitcoach", section); err != nil {
			return cfg, fmt.Errorf("env config: %w", err)
		}
	}

	return cfg, nil
}

// SaveConfig writes the config to $FITCOACH_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(Home(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// WebhookTimeout parses the coach timeout, defaulting to 30 seconds.
func (c CoachConfig) WebhookTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// RateWindow parses the gate window, defaulting to 60 seconds.
func (c GateConfig) RateWindow() time.Duration {
	d, err := time.ParseDuration(c.Window)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Home returns the FitCoach data directory.
func Home() string {
	if env := os.Getenv("FITCOACH_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fitcoach")
}
