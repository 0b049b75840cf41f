package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Xael/reversusfinal/internal/config"
)

// TestBootstrapPersistsAchievements: grants survive a second bootstrap on
// the same sqlite file.
func TestBootstrapPersistsAchievements(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		SaveBackend: config.BackendSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "app.db"),
		Profile:     "p",
		LogLevel:    "error",
	}

	env, err := Bootstrap(ctx, cfg)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	env.Tracker.Grant("first_win")
	if err := env.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	env, err = Bootstrap(ctx, cfg)
	if err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	defer env.Close()
	if !env.Tracker.Has("first_win") {
		t.Error("first_win should have been persisted")
	}
}

// TestBootstrapWithoutStore: the none backend still yields a tracker.
func TestBootstrapWithoutStore(t *testing.T) {
	env, err := Bootstrap(context.Background(), config.Config{SaveBackend: config.BackendNone, LogLevel: "info"})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer env.Close()
	if env.Store != nil || env.Tracker == nil {
		t.Errorf("Expected no store and a tracker, got %v / %v", env.Store, env.Tracker)
	}
}

// TestBootstrapBadLevel: an unknown log level is refused.
func TestBootstrapBadLevel(t *testing.T) {
	if _, err := Bootstrap(context.Background(), config.Config{SaveBackend: config.BackendNone, LogLevel: "loud"}); err == nil {
		t.Error("Expected an error")
	}
}
