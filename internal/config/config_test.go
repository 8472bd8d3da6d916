package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.AI.Backend != DefaultAIBackend || cfg.AI.Model != DefaultAIModel {
		t.Errorf("ai defaults = %s/%s, want %s/%s", cfg.AI.Backend, cfg.AI.Model, DefaultAIBackend, DefaultAIModel)
	}
	if cfg.AI.APIKey != "" {
		t.Errorf("api key should stay empty without env, got %q", cfg.AI.APIKey)
	}
	if cfg.Server.Address != DefaultServerAddress {
		t.Errorf("server address = %q, want %q", cfg.Server.Address, DefaultServerAddress)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("allowed origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Catalog.Path != DefaultCatalogPath {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if task, ok := cfg.Scheduler.Tasks["sql_maintenance"]; !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task default missing: %+v", cfg.Scheduler.Tasks)
	}
	if cfg.Exchanges.Retention != DefaultExchangeRetention {
		t.Errorf("retention = %v", cfg.Exchanges.Retention)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
logger:
  level: debug
  json: true
ai:
  backend: gemini
  model: gemini-2.0-flash
  timeout: 45s
server:
  address: ":9090"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMMERCE_SERVER_ADDRESS", ":7070")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.AI.Backend != "gemini" || cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 45*time.Second {
		t.Errorf("ai timeout = %v, want 45s", cfg.AI.Timeout)
	}
	if cfg.Server.Address != ":7070" {
		t.Errorf("env override not applied, address = %q", cfg.Server.Address)
	}
	if cfg.AI.APIKey != "gem-key" {
		t.Errorf("api key fallback = %q, want gem-key", cfg.AI.APIKey)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "ai:\n  backend: llama\n"},
		{"bad log level", "logger:\n  level: loud\n"},
		{"telegram without token", "telegram:\n  enabled: true\n"},
		{"temperature out of range", "ai:\n  temperature: 3.5\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := LoadConfig(path)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
			}
		})
	}
}
