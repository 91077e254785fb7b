package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Path != "app.db" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Loop.Tick != 50*time.Millisecond || cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("unexpected durations: tick=%s ttl=%s", cfg.Loop.Tick, cfg.Auth.TokenTTL)
	}
	if cfg.MQTT.Enabled() {
		t.Fatalf("mqtt must be disabled by default")
	}
	if cfg.Auth.OpenSignUp {
		t.Fatalf("open sign-up must be off by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
port: "9090"
loop:
  tick: 20ms
portal:
  addr: ":9091"
  autostart: "Free WiFi"
mqtt:
  broker: tcp://localhost:1883
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("RADIO_PORT", "7070")
	t.Setenv("RADIO_RADIO_STATION_CONNECTED", "true")
	t.Setenv("RADIO_AUTH_OPEN_SIGN_UP", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env must override file, port=%q", cfg.Port)
	}
	if cfg.Loop.Tick != 20*time.Millisecond {
		t.Fatalf("tick = %s", cfg.Loop.Tick)
	}
	if cfg.Portal.Addr != ":9091" || cfg.Portal.Autostart != "Free WiFi" {
		t.Fatalf("portal = %+v", cfg.Portal)
	}
	if !cfg.Radio.StationConnected {
		t.Fatalf("station_connected not read from env")
	}
	if !cfg.Auth.OpenSignUp {
		t.Fatalf("open_sign_up not read from env")
	}
	if !cfg.MQTT.Enabled() || cfg.MQTT.TopicPrefix != "cardputer/radio" {
		t.Fatalf("mqtt = %+v", cfg.MQTT)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("loop:\n  tick: 0s\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "loop.tick") {
		t.Fatalf("expected tick validation error, got %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("port: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:     "8080",
		DB:       DBConfig{Path: "app.db"},
		Auth:     AuthConfig{TokenTTL: time.Hour},
		Loop:     LoopConfig{Tick: time.Millisecond},
		Portal:   PortalConfig{Addr: ":8081"},
		Transfer: TransferConfig{Addr: ":8082", Root: "files"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty_port", func(c *Config) { c.Port = " " }},
		{"empty_db", func(c *Config) { c.DB.Path = "" }},
		{"zero_ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"empty_portal_addr", func(c *Config) { c.Portal.Addr = "" }},
		{"empty_transfer_root", func(c *Config) { c.Transfer.Root = "" }},
		{"mqtt_without_prefix", func(c *Config) { c.MQTT.Broker = "tcp://x:1883" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
