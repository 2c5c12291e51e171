package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("expected default storage sqlite, got %q", cfg.Storage)
	}
	if cfg.Gateway.MaxTokens != 256 {
		t.Errorf("expected default max tokens 256, got %d", cfg.Gateway.MaxTokens)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CURIO_ADDR", ":9090")
	t.Setenv("CURIO_STORAGE", "file")
	t.Setenv("CURIO_GATEWAY_API_KEY", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.Storage != StorageFile {
		t.Errorf("env overrides ignored: %+v", cfg)
	}
	if cfg.Gateway.APIKey != "secret" {
		t.Error("expected gateway credential from env")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curio.yaml")
	content := `
addr: ":7070"
storage: file
gateway:
  base_url: http://localhost:9999/v1/completions
  model: test-model
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected addr :7070, got %q", cfg.Addr)
	}
	if cfg.Gateway.Model != "test-model" {
		t.Errorf("expected gateway model from file, got %q", cfg.Gateway.Model)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("CURIO_STORAGE", "redis")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown storage backend")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
