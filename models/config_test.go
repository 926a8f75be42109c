package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Limits.Trending != 10 || cfg.Limits.Search != 5 {
		t.Errorf("default limits = %+v", cfg.Limits)
	}
	if cfg.Assistant.Model != "gpt-4o-mini" || cfg.Assistant.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("default assistant = %+v", cfg.Assistant)
	}
	if cfg.History.Path != "feedscope.db" {
		t.Errorf("default history path = %q", cfg.History.Path)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("default dashboard port = %d", cfg.Dashboard.Port)
	}
}

func TestLoadConfigLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
limits:
  trending: 25
assistant:
  model: my-local-model
  base_url: http://localhost:8000/v1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Limits.Trending != 25 {
		t.Errorf("Limits.Trending = %d, want 25", cfg.Limits.Trending)
	}
	if cfg.Limits.Personal != 10 {
		t.Errorf("Limits.Personal = %d, want the default 10", cfg.Limits.Personal)
	}
	if cfg.Assistant.Model != "my-local-model" {
		t.Errorf("Assistant.Model = %q", cfg.Assistant.Model)
	}
	if cfg.Assistant.TimeoutSeconds != 10 {
		t.Errorf("Assistant.TimeoutSeconds = %d, want the default 10", cfg.Assistant.TimeoutSeconds)
	}
}

func TestLoadConfigMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits: [not: a: mapping"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() should fail on malformed yaml")
	}
}
