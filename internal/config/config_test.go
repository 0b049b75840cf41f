package config

import (
	"testing"
	"time"
)

// TestLoadDefaults: an empty environment yields the documented defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveBackend != BackendSQLite || cfg.SQLitePath != "reversus.db" {
		t.Errorf("unexpected save defaults: %+v", cfg)
	}
	if cfg.HTTPAddr != ":8080" || cfg.TCPPort != "9000" {
		t.Errorf("unexpected listen defaults: %s %s", cfg.HTTPAddr, cfg.TCPPort)
	}
}

// TestLoadOverrides: REVERSUS_* variables replace the defaults.
func TestLoadOverrides(t *testing.T) {
	t.Setenv("REVERSUS_SAVE_BACKEND", "redis")
	t.Setenv("REVERSUS_REDIS_DB", "3")
	t.Setenv("REVERSUS_THINK_DELAY", "250ms")
	t.Setenv("REVERSUS_SEED", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveBackend != BackendRedis || cfg.RedisDB != 3 || cfg.Seed != 99 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ThinkDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms think delay, got %s", cfg.ThinkDelay)
	}
}

// TestLoadRejectsUnknownBackend: only the known save backends are accepted.
func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("REVERSUS_SAVE_BACKEND", "floppy")
	if _, err := Load(); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}

// TestLogger: the level string is honoured and bad levels fail.
func TestLogger(t *testing.T) {
	z, err := Config{LogLevel: "debug", LogDev: true}.Logger()
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	if !z.Core().Enabled(-1) {
		t.Error("debug should be enabled")
	}
	if _, err := (Config{LogLevel: "loud"}).Logger(); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

// TestRules: no file means the built-in table; a missing file is an error.
func TestRules(t *testing.T) {
	rules, err := Config{}.Rules()
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if rules.WinningPosition != 10 {
		t.Errorf("Expected winning position 10, got %d", rules.WinningPosition)
	}
	if _, err := (Config{RulesFile: "does-not-exist.yaml"}).Rules(); err == nil {
		t.Error("Expected an error for a missing rules file")
	}
}
