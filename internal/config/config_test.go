package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Resolver.MaxItems != 65 {
		t.Errorf("max items = %d, want 65", cfg.Resolver.MaxItems)
	}
	if cfg.Resolver.FetchTimeout != 20*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Resolver.FetchTimeout)
	}
	if cfg.Resolver.QuickTimeout != 6*time.Second {
		t.Errorf("quick timeout = %v", cfg.Resolver.QuickTimeout)
	}
	if cfg.Browse.ClientName != "WEB_REMIX" {
		t.Errorf("browse client = %q", cfg.Browse.ClientName)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  base_path: /music/
resolver:
  max_items: 100
  fetch_timeout: 30s
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/music" {
		t.Errorf("base path = %q, want /music (trailing slash trimmed)", cfg.Server.BasePath)
	}
	if cfg.Resolver.MaxItems != 100 {
		t.Errorf("max items = %d, want 100", cfg.Resolver.MaxItems)
	}
	if cfg.Resolver.FetchTimeout != 30*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Resolver.FetchTimeout)
	}
	// Unset keys keep defaults.
	if cfg.Resolver.QuickTimeout != 6*time.Second {
		t.Errorf("quick timeout = %v, want default", cfg.Resolver.QuickTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OD_PORT", "3000")
	t.Setenv("OD_MAX_ITEMS", "25")
	t.Setenv("OD_QUICK_TIMEOUT", "3s")
	t.Setenv("OD_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Resolver.MaxItems != 25 {
		t.Errorf("max items = %d, want 25", cfg.Resolver.MaxItems)
	}
	if cfg.Resolver.QuickTimeout != 3*time.Second {
		t.Errorf("quick timeout = %v", cfg.Resolver.QuickTimeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("OD_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero max items", func(c *Config) { c.Resolver.MaxItems = 0 }},
		{"zero fetch timeout", func(c *Config) { c.Resolver.FetchTimeout = 0 }},
		{"missing client version", func(c *Config) { c.Browse.ClientVersion = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
