package fixtures

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig failed for missing file: %v", err)
	}

	if cfg.KeyDir != "testdata/keys" {
		t.Errorf("unexpected default key dir: %q", cfg.KeyDir)
	}
	if cfg.OutputDir != "testdata/email" {
		t.Errorf("unexpected default output dir: %q", cfg.OutputDir)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	if err := os.WriteFile(path, []byte(`{"key_dir":"/tmp/keys"}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.KeyDir != "/tmp/keys" {
		t.Errorf("expected key dir from file, got %q", cfg.KeyDir)
	}
	// unset fields keep their defaults
	if cfg.OutputDir != "testdata/email" {
		t.Errorf("expected default output dir, got %q", cfg.OutputDir)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid config")
	}
}
