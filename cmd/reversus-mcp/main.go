package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Xael/reversusfinal/internal/app"
	"github.com/Xael/reversusfinal/internal/config"
	rmcp "github.com/Xael/reversusfinal/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	profile := flag.String("profile", cfg.Profile, "save and achievement profile")
	flag.Parse()
	cfg.Profile = *profile

	env, err := app.Bootstrap(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	s := server.NewMCPServer("reversus", "1.0.0")
	rmcp.RegisterTools(s, &rmcp.Handler{
		Rules:         env.Rules,
		Store:         env.Store,
		Profile:       cfg.Profile,
		Achievements:  env.Tracker,
		Logger:        env.Logger,
		PromptTimeout: cfg.PromptTimeout,
	})

	if err := server.ServeStdio(s); err != nil {
		env.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
