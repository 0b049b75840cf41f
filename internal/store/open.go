package store

import (
	"context"
	"fmt"

	"github.com/Xael/reversusfinal/internal/config"
)

// Open connects the backend named by cfg.SaveBackend. The "none" backend
// returns a nil store and saving is disabled.
func Open(ctx context.Context, cfg config.Config) (SaveStore, error) {
	switch cfg.SaveBackend {
	case config.BackendSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := OpenRedis(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}
