// Package config loads process settings from REVERSUS_* environment
// variables and builds the process logger from them.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Xael/reversusfinal/internal/game"
)

// Config holds every setting the binaries read from the environment.
// Command-line flags override individual fields after Load.
type Config struct {
	RulesFile string `env:"REVERSUS_RULES_FILE"`
	Seed      uint64 `env:"REVERSUS_SEED" envDefault:"0"`

	SaveBackend   string `env:"REVERSUS_SAVE_BACKEND" envDefault:"sqlite"`
	SQLitePath    string `env:"REVERSUS_SQLITE_PATH" envDefault:"reversus.db"`
	RedisAddr     string `env:"REVERSUS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REVERSUS_REDIS_PASSWORD"`
	RedisDB       int    `env:"REVERSUS_REDIS_DB" envDefault:"0"`
	Profile       string `env:"REVERSUS_PROFILE" envDefault:"default"`

	ThinkDelay    time.Duration `env:"REVERSUS_THINK_DELAY" envDefault:"0s"`
	PromptTimeout time.Duration `env:"REVERSUS_PROMPT_TIMEOUT" envDefault:"0s"`
	TimeLimit     time.Duration `env:"REVERSUS_TIME_LIMIT" envDefault:"0s"`

	LogLevel string `env:"REVERSUS_LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"REVERSUS_LOG_DEV" envDefault:"false"`

	HTTPAddr string `env:"REVERSUS_HTTP_ADDR" envDefault:":8080"`
	TCPPort  string `env:"REVERSUS_TCP_PORT" envDefault:"9000"`
}

// Save backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.SaveBackend {
	case BackendSQLite, BackendRedis, BackendNone:
	default:
		return Config{}, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
	return cfg, nil
}

// Logger builds the zap logger described by LogLevel and LogDev.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.LogDev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Rules loads the rule table from RulesFile, or the built-in one.
func (c Config) Rules() (*game.Rules, error) {
	if c.RulesFile == "" {
		return game.DefaultRules(), nil
	}
	return game.ParseRulesFile(c.RulesFile)
}
