package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
binary = "depquery"
args = ["query"]
history = false

[ui]
accent = "#A78BFA"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Binary != "depquery" {
		t.Errorf("binary = %q", cfg.Binary)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "query" {
		t.Errorf("args = %v", cfg.Args)
	}
	if cfg.HistoryEnabled() {
		t.Error("history should be disabled")
	}
	if cfg.UI.Accent != "#A78BFA" {
		t.Errorf("accent = %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalidToml(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "binary = [broken")
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestHistoryDefaultsToEnabled(t *testing.T) {
	if !(&Config{}).HistoryEnabled() {
		t.Error("history should default to enabled")
	}
}
