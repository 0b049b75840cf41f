package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/log"
	rnet "github.com/Xael/reversusfinal/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []rnet.EventView `json:"events"`
	State    *rnet.StateView  `json:"state,omitempty"`
	Pending  *rnet.PromptView `json:"pending,omitempty"`
	GameOver bool             `json:"game_over"`
	Won      bool             `json:"won,omitempty"`
	Winners  []string         `json:"winners,omitempty"`
	Result   string           `json:"result,omitempty"`
	Saved    string           `json:"saved,omitempty"`
}

// GameSession holds one match played through MCP tools. The agent sits in
// the human seat behind a game.Gate; every other seat is the built-in AI.
type GameSession struct {
	match  *game.Match
	gate   *game.Gate
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	events   []rnet.EventView
	gameOver bool
	outcome  game.Outcome
	runErr   error
}

// NewGameSession starts the match loop in the background. A nil doc starts
// a fresh match from cfg; otherwise the save is resumed.
func NewGameSession(cfg game.MatchConfig, doc *game.SaveDocument) (*GameSession, error) {
	s := &GameSession{
		gate: game.NewGate(),
		done: make(chan struct{}),
	}
	s.gate.OnEvent = func(ev log.GameEvent) { s.appendEvent(rnet.NewEventView(ev)) }
	cfg.Controllers = map[string]game.PlayerController{game.HumanID: s.gate}

	var err error
	if doc != nil {
		s.match, err = game.ResumeMatch(cfg, doc)
	} else {
		s.match, err = game.NewMatch(cfg)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		out, err := s.match.Run(ctx)
		s.mu.Lock()
		s.gameOver = true
		s.outcome = out
		if err != nil && !errors.Is(err, context.Canceled) {
			s.runErr = err
			s.outcome.Reason = fmt.Sprintf("error: %v", err)
		}
		s.mu.Unlock()
	}()
	return s, nil
}

// Stop abandons the match and waits for the loop to exit.
func (s *GameSession) Stop() {
	s.cancel()
	<-s.done
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev rnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []rnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []rnet.EventView{}
	}
	return events
}

// waitForPending blocks until the engine opens a decision or the match
// ends, then builds a ToolResponse with accumulated events.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	for {
		if p := s.gate.Pending(); p != nil {
			return s.response(p), nil
		}
		select {
		case <-s.gate.Prompts():
			// Pending is authoritative; a stale delivery loops back to wait.
		case <-s.done:
			return s.response(nil), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// snapshot reports the current position without waiting. The engine is
// parked whenever a decision is open or the match is over, so the state
// is safe to read then.
func (s *GameSession) snapshot() *ToolResponse {
	if p := s.gate.Pending(); p != nil {
		return s.response(p)
	}
	if s.isOver() {
		return s.response(nil)
	}
	return &ToolResponse{Events: s.drainEvents()}
}

func (s *GameSession) response(p *game.Prompt) *ToolResponse {
	resp := &ToolResponse{Events: s.drainEvents()}
	resp.State = rnet.BuildStateView(s.match.State, game.HumanID)
	if p != nil {
		resp.Pending = rnet.NewPromptView(*p)
		return resp
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.GameOver = s.gameOver
	resp.Won = s.outcome.Won
	resp.Winners = s.outcome.Winners
	resp.Result = s.outcome.Reason
	return resp
}

func (s *GameSession) isOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver
}

// submit answers the open decision and waits for the next one.
func (s *GameSession) submit(ctx context.Context, index int) (*ToolResponse, error) {
	if err := s.gate.Submit(index); err != nil {
		return nil, err
	}
	return s.waitForPending(ctx)
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
