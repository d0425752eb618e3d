package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeblock.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8099" {
		t.Errorf("expected default addr, got %q", cfg.ListenAddr)
	}
	if cfg.StartTime != "08:00" || cfg.EndTime != "20:00" {
		t.Errorf("expected default day window, got %s-%s", cfg.StartTime, cfg.EndTime)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
start_time: "07:30"
end_time: "18:00"
hide_weekends: true
users:
  - name: alice
    token: tok-alice
default_categories:
  - name: Work
    color: "#ff0000"
    text_color: "#ffffff"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9000" || !cfg.HideWeekends {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Name != "alice" {
		t.Fatalf("users not loaded: %+v", cfg.Users)
	}
	if len(cfg.DefaultCategories) != 1 || cfg.DefaultCategories[0].Name != "Work" {
		t.Errorf("default categories not loaded: %+v", cfg.DefaultCategories)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `listen_addr: ":9000"`)
	t.Setenv("TIMEBLOCK_ADDR", ":7777")
	t.Setenv("TIMEBLOCK_DB", "/tmp/override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("env addr override not applied: %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Errorf("env db override not applied: %q", cfg.DBPath)
	}
}

func TestLoadRejectsBadClock(t *testing.T) {
	path := writeConfig(t, `start_time: "25:00"`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for bad start_time")
	}
}

func TestLoadRejectsDuplicateTokens(t *testing.T) {
	path := writeConfig(t, `
users:
  - name: alice
    token: same
  - name: bob
    token: same
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for duplicate tokens")
	}
}

func TestTokenOwner(t *testing.T) {
	cfg := Config{Users: []User{{Name: "alice", Token: "tok-a"}, {Name: "bob", Token: "tok-b"}}}
	if owner, ok := cfg.TokenOwner("tok-b"); !ok || owner != "bob" {
		t.Errorf("TokenOwner(tok-b) = %q, %v", owner, ok)
	}
	if _, ok := cfg.TokenOwner("unknown"); ok {
		t.Error("unknown token should not resolve")
	}
}
