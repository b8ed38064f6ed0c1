package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"markestedt/whisperbatch/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[model]
name = "base.en"

[batch]
processors = 4

[web]
listen = "127.0.0.1:9000"
`)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if cfg.Model.Name != "base.en" {
		t.Errorf("model name = %q, want base.en", cfg.Model.Name)
	}
	if cfg.Batch.Processors != 4 {
		t.Errorf("processors = %d, want 4", cfg.Batch.Processors)
	}
	if cfg.Web.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %q, want 127.0.0.1:9000", cfg.Web.Listen)
	}
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
[model]
name = "small"
`)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if cfg.Batch.Processors != 1 {
		t.Errorf("processors default = %d, want 1", cfg.Batch.Processors)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
	if cfg.Audio.MaxSeconds != 300 {
		t.Errorf("audio max_seconds default = %d, want 300", cfg.Audio.MaxSeconds)
	}
	if cfg.Model.Dir == "" {
		t.Error("model dir default must not be empty")
	}
}

func TestLoadFileRejectsInvalidToml(t *testing.T) {
	path := writeConfig(t, `model = not valid`)
	if _, err := config.LoadFile(path); err == nil {
		t.Fatal("expected error for invalid toml")
	}
}
