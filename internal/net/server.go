package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/log"
	"github.com/Xael/reversusfinal/internal/store"
)

// Server hosts a match for one TCP seat. The joiner plays player-1 and the
// other seats are driven by the built-in AI.
type Server struct {
	Port         string
	Rules        *game.Rules
	Logger       *zap.Logger
	Store        store.SaveStore // nil disables saving
	Profile      string
	Achievements game.AchievementSink

	ThinkDelay    time.Duration
	PromptTimeout time.Duration
	TimeLimit     time.Duration
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	s.logger().Info("waiting for a player", zap.String("port", s.Port))

	// Accept exactly one connection (the joiner)
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	conn, err := ln.Accept()
	stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	s.logger().Info("player connected", zap.Stringer("remote", conn.RemoteAddr()))

	var join ClientMessage
	if err := json.NewDecoder(conn).Decode(&join); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	_, err = s.Serve(ctx, conn, join)
	return err
}

// PlayLocal runs a match against the terminal: the REPL talks to the
// server half of an in-memory pipe.
func (s *Server) PlayLocal(ctx context.Context, join ClientMessage, in io.Reader, out io.Writer) (game.Outcome, error) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- NewClient(clientConn, in, out).RunREPL(ctx)
	}()

	outcome, err := s.Serve(ctx, serverConn, join)
	serverConn.Close()
	replErr := <-errCh
	if err == nil && replErr != nil && !errors.Is(replErr, io.EOF) && !errors.Is(replErr, io.ErrClosedPipe) {
		err = replErr
	}
	return outcome, err
}

// Serve runs one match with conn in the human seat and reports the outcome
// to it. The connection is closed when ctx ends so blocked reads return.
func (s *Server) Serve(ctx context.Context, conn net.Conn, join ClientMessage) (game.Outcome, error) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	ctrl := NewNetworkController(conn, game.HumanID)
	m, err := s.newMatch(ctx, join, ctrl)
	if err != nil {
		ctrl.mu.Lock()
		_ = ctrl.send(ServerMessage{Type: "error", Error: err.Error()})
		ctrl.mu.Unlock()
		return game.Outcome{}, err
	}
	if s.Store != nil && m.State.Story {
		ctrl.OnSave = func(ctx context.Context) (string, error) {
			return s.save(ctx, m, join.Profile)
		}
	}

	s.logger().Info("match starting",
		zap.String("match", m.ID),
		zap.String("mode", m.State.Mode.String()),
		zap.String("battle", m.State.Battle.String()),
		zap.Int("seats", len(m.State.TurnOrder)))

	out, err := m.Run(ctx)
	if err != nil {
		return out, fmt.Errorf("match error: %w", err)
	}
	if s.Store != nil && m.State.Story {
		// A finished story battle has nothing left to resume.
		if derr := s.Store.DeleteGame(ctx, s.profile(join.Profile)); derr != nil {
			s.logger().Warn("delete finished save", zap.Error(derr))
		}
	}
	s.logger().Info("match over", zap.String("match", m.ID), zap.Bool("won", out.Won), zap.String("reason", out.Reason))
	if err := ctrl.SendGameOver(out); err != nil {
		return out, fmt.Errorf("send game_over: %w", err)
	}
	return out, nil
}

func (s *Server) newMatch(ctx context.Context, join ClientMessage, ctrl game.PlayerController) (*game.Match, error) {
	cfg, err := game.ConfigFromNames(join.Mode, join.Players, join.Battle)
	if err != nil {
		return nil, err
	}
	cfg.Rules = s.Rules
	cfg.Seed = join.Seed
	cfg.Logger = log.NewZapLogger(s.logger())
	cfg.Controllers = map[string]game.PlayerController{game.HumanID: ctrl}
	cfg.Achievements = s.Achievements
	cfg.ThinkDelay = s.ThinkDelay
	cfg.PromptTimeout = s.PromptTimeout
	cfg.TimeLimit = s.TimeLimit

	if join.Resume && s.Store != nil {
		doc, err := store.LoadOrDiscard(ctx, s.Store, s.profile(join.Profile))
		switch {
		case err == nil:
			return game.ResumeMatch(cfg, doc)
		case !errors.Is(err, store.ErrNoSave):
			return nil, err
		}
		s.logger().Info("no save to resume, starting fresh", zap.String("profile", s.profile(join.Profile)))
	}
	return game.NewMatch(cfg)
}

func (s *Server) save(ctx context.Context, m *game.Match, profile string) (string, error) {
	doc, err := m.Snapshot(game.StoryState{Node: m.State.Battle.String()})
	if err != nil {
		return "", err
	}
	if err := s.Store.SaveGame(ctx, s.profile(profile), doc); err != nil {
		s.logger().Error("save failed", zap.Error(err))
		return "", fmt.Errorf("save: %w", err)
	}
	s.logger().Info("match saved", zap.String("save", doc.ID), zap.Int("elapsed", doc.ElapsedSeconds))
	return "Jogo salvo.", nil
}

func (s *Server) profile(p string) string {
	if p != "" {
		return p
	}
	if s.Profile != "" {
		return s.Profile
	}
	return "default"
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
