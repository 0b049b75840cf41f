package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Xael/reversusfinal/internal/achievements"
	"github.com/Xael/reversusfinal/internal/app"
	"github.com/Xael/reversusfinal/internal/config"
	rnet "github.com/Xael/reversusfinal/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	cmd := os.Args[1]
	switch cmd {
	case "play":
		runPlay(ctx, cfg, os.Args[2:])
	case "host":
		runHost(ctx, cfg, os.Args[2:])
	case "join":
		runJoin(ctx, cfg, os.Args[2:])
	case "achievements":
		runAchievements(ctx, cfg)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  reversus play [--mode M] [--players N] [--battle B] [--seed S] [--resume]")
	fmt.Println("  reversus host [--port P]")
	fmt.Println("  reversus join [--addr ADDR] [--mode M] [--players N] [--battle B] [--seed S] [--resume]")
	fmt.Println("  reversus achievements")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play          Play a match in this terminal against the AI")
	fmt.Println("  host          Start a game server; the joiner plays against the AI")
	fmt.Println("  join          Connect to a game server and play")
	fmt.Println("  achievements  List achievements for the current profile")
	fmt.Println()
	fmt.Println("Settings come from REVERSUS_* environment variables; flags override them.")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// setupFlags registers the match setup flags shared by play and join.
func setupFlags(fs *flag.FlagSet, cfg config.Config) *rnet.ClientMessage {
	join := &rnet.ClientMessage{Type: "join"}
	fs.StringVar(&join.Mode, "mode", "solo", "quick match mode: solo, duo or inversus")
	fs.IntVar(&join.Players, "players", 0, "seats in a quick match (0 for the mode default)")
	fs.StringVar(&join.Battle, "battle", "", "story battle id (empty for a quick match)")
	fs.Uint64Var(&join.Seed, "seed", cfg.Seed, "RNG seed (0 for random)")
	fs.BoolVar(&join.Resume, "resume", false, "resume the saved story battle")
	fs.StringVar(&join.Profile, "profile", cfg.Profile, "save profile")
	return join
}

func newServer(env *app.Env, port string) *rnet.Server {
	return &rnet.Server{
		Port:          port,
		Rules:         env.Rules,
		Logger:        env.Logger,
		Store:         env.Store,
		Profile:       env.Config.Profile,
		Achievements:  env.Tracker,
		ThinkDelay:    env.Config.ThinkDelay,
		PromptTimeout: env.Config.PromptTimeout,
		TimeLimit:     env.Config.TimeLimit,
	}
}

func runPlay(ctx context.Context, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	join := setupFlags(fs, cfg)
	logLevel := fs.String("log-level", "warn", "log level for the terminal session")
	fs.Parse(args)

	cfg.LogLevel = *logLevel
	cfg.Profile = join.Profile
	env, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer env.Close()

	srv := newServer(env, "")
	if _, err := srv.PlayLocal(ctx, *join, os.Stdin, os.Stdout); err != nil {
		env.Close()
		fail(err)
	}
}

func runHost(ctx context.Context, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	port := fs.String("port", cfg.TCPPort, "TCP port to listen on")
	fs.Parse(args)

	env, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer env.Close()

	fmt.Printf("Aguardando jogador na porta %s...\n", *port)
	if err := newServer(env, *port).Run(ctx); err != nil {
		env.Close()
		fail(err)
	}
}

func runJoin(ctx context.Context, cfg config.Config, args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:"+cfg.TCPPort, "server address to connect to")
	join := setupFlags(fs, cfg)
	fs.Parse(args)

	if err := rnet.Connect(ctx, *addr, *join, os.Stdin, os.Stdout); err != nil {
		fail(err)
	}
}

func runAchievements(ctx context.Context, cfg config.Config) {
	cfg.LogLevel = "warn"
	env, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer env.Close()

	for _, e := range achievements.List(env.Tracker) {
		mark, text := "[ ]", e.Hint
		if e.Unlocked {
			mark, text = "[x]", e.Description
		}
		fmt.Printf("%s %-28s %s\n", mark, e.Name, text)
	}
	u := env.Tracker.Unlocks()
	fmt.Printf("\nInversus: %v  Narrador: %v  PvP: %v\n", u.Inversus, u.Narrador, u.PvP)
}
