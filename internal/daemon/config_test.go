package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Gate.MaxLength != 2000 {
		t.Errorf("Gate.MaxLength = %d, want 2000", cfg.Gate.MaxLength)
	}
	if cfg.Gate.MaxRequests != 10 {
		t.Errorf("Gate.MaxRequests = %d, want 10", cfg.Gate.MaxRequests)
	}
	if cfg.Gate.RateWindow() != 60*time.Second {
		t.Errorf("RateWindow = %v, want 60s", cfg.Gate.RateWindow())
	}
	if cfg.Coach.WebhookTimeout() != 30*time.Second {
		t.Errorf("WebhookTimeout = %v, want 30s", cfg.Coach.WebhookTimeout())
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want 8090", cfg.API.Port)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FITCOACH_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Gate.MaxLength != 2000 || cfg.API.Host != "127.0.0.1" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FITCOACH_HOME", home)

	content := `
[coach]
webhook_url = "https://coach.example.com/webhook"
timeout = "10s"

[gate]
max_length = 500

[api]
port = 9999
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Coach.WebhookURL != "https://coach.example.com/webhook" {
		t.Errorf("WebhookURL = %q", cfg.Coach.WebhookURL)
	}
	if cfg.Coach.WebhookTimeout() != 10*time.Second {
		t.Errorf("WebhookTimeout = %v, want 10s", cfg.Coach.WebhookTimeout())
	}
	if cfg.Gate.MaxLength != 500 {
		t.Errorf("MaxLength = %d, want 500", cfg.Gate.MaxLength)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.API.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Gate.MaxRequests != 10 {
		t.Errorf("MaxRequests = %d, want default 10", cfg.Gate.MaxRequests)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FITCOACH_HOME", home)

	content := `
[coach]
webhook_url = "https://file.example.com/webhook"

[api]
port = 9999
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FITCOACH_WEBHOOK_URL", "https://env.example.com/webhook")
	t.Setenv("FITCOACH_API_PORT", "7777")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Coach.WebhookURL != "https://env.example.com/webhook" {
		t.Errorf("WebhookURL = %q, want env value", cfg.Coach.WebhookURL)
	}
	if cfg.API.Port != 7777 {
		t.Errorf("Port = %d, want env value 7777", cfg.API.Port)
	}
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	t.Setenv("FITCOACH_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Coach.WebhookURL = "https://coach.example.com/webhook"
	cfg.API.Port = 8123

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Coach.WebhookURL != cfg.Coach.WebhookURL || loaded.API.Port != 8123 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestParseFallbacks(t *testing.T) {
	c := CoachConfig{Timeout: "garbage"}
	if c.WebhookTimeout() != 30*time.Second {
		t.Errorf("bad timeout should fall back to 30s, got %v", c.WebhookTimeout())
	}
	g := GateConfig{Window: ""}
	if g.RateWindow() != 60*time.Second {
		t.Errorf("empty window should fall back to 60s, got %v", g.RateWindow())
	}
}
