package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/app"
	"github.com/Xael/reversusfinal/internal/config"
	rnet "github.com/Xael/reversusfinal/internal/net"
	"github.com/Xael/reversusfinal/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	addr := flag.String("addr", cfg.HTTPAddr, "HTTP address to listen on")
	flag.Parse()

	if !cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}

	env, err := app.Bootstrap(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	srv := web.NewServer(web.Options{
		Rules: env.Rules,
		Game: &rnet.Server{
			Rules:         env.Rules,
			Logger:        env.Logger,
			Store:         env.Store,
			Profile:       cfg.Profile,
			Achievements:  env.Tracker,
			ThinkDelay:    cfg.ThinkDelay,
			PromptTimeout: cfg.PromptTimeout,
			TimeLimit:     cfg.TimeLimit,
		},
		Store:   env.Store,
		Profile: cfg.Profile,
		Tracker: env.Tracker,
		Logger:  env.Logger,
		Seed:    cfg.Seed,
	})

	env.Logger.Info("reversus web UI listening", zap.String("addr", *addr))
	if err := srv.ListenAndServe(*addr); err != nil {
		env.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
