// Package app wires the shared process pieces every binary needs: logger,
// rule table, save store and achievement tracker.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/achievements"
	"github.com/Xael/reversusfinal/internal/config"
	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/store"
)

// Env is the bootstrapped process environment.
type Env struct {
	Config  config.Config
	Logger  *zap.Logger
	Rules   *game.Rules
	Store   store.SaveStore // nil when saving is disabled
	Tracker *achievements.Tracker
}

// Bootstrap builds an Env from cfg. Close releases it.
func Bootstrap(ctx context.Context, cfg config.Config) (*Env, error) {
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.SaveBackend, err)
	}

	var persister achievements.Persister
	if st != nil {
		persister = st
	}
	tracker, err := achievements.NewTracker(ctx, cfg.Profile, persister, logger)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	logger.Debug("environment ready",
		zap.String("backend", cfg.SaveBackend),
		zap.String("profile", cfg.Profile),
		zap.Int("unlocked", len(tracker.Unlocked())))
	return &Env{Config: cfg, Logger: logger, Rules: rules, Store: st, Tracker: tracker}, nil
}

// Close flushes the logger and closes the store.
func (e *Env) Close() error {
	_ = e.Logger.Sync()
	if e.Store != nil {
		return e.Store.Close()
	}
	return nil
}
