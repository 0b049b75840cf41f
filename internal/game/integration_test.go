package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Xael/reversusfinal/internal/log"
)

// runToCompletion plays a match with the scripted controller in the human
// seat and everyone else on the built-in AI.
func runToCompletion(t *testing.T, cfg MatchConfig, human *ScriptedController) (*Match, *log.MemoryLogger, Outcome) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.Controllers = map[string]PlayerController{HumanID: human}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = 50
	}
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	out, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return m, logger, out
}

// writeTranscript dumps the event log for inspection when a run fails.
func writeTranscript(t *testing.T, logger *log.MemoryLogger) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.log")
	if err := os.WriteFile(path, []byte(log.FormatAll(logger.Events())), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	t.Logf("event log written to %s (%d events)", path, len(logger.Events()))
}

func assertSaneEnd(t *testing.T, m *Match, logger *log.MemoryLogger) {
	t.Helper()
	gs := m.State
	if !gs.Over || gs.Phase != PhaseGameOver {
		t.Errorf("Expected a finished match, got over=%v phase=%s", gs.Over, gs.Phase)
	}
	if n := len(logger.EventsOfType(log.EventGameOver)); n != 1 {
		t.Errorf("Expected exactly one game over event, got %d", n)
	}
	for _, p := range gs.Players {
		if p.Position < 1 || p.Position > m.Rules.WinningPosition {
			t.Errorf("%s ended off the board at %d", p.ID, p.Position)
		}
	}
	if len(logger.EventsOfType(log.EventDeckResynthesized)) == 0 {
		want := m.Rules.ValueDeckSize() + m.Rules.EffectDeckSize()
		if got := gs.CountCards(); got != want {
			t.Errorf("card count drifted: expected %d, got %d", want, got)
		}
	}
	if t.Failed() {
		writeTranscript(t, logger)
	}
}

// TestQuickDuelRunsToEnd: a two-seat quick match finishes on its own.
func TestQuickDuelRunsToEnd(t *testing.T) {
	m, logger, out := runToCompletion(t, MatchConfig{Mode: ModeSolo, Players: 2, Seed: 11}, NewScriptedController(t, "P1"))
	assertSaneEnd(t, m, logger)
	if out.Rounds < 1 {
		t.Errorf("Expected at least one round, got %d", out.Rounds)
	}
	if len(logger.EventsOfType(log.EventRoundResult)) == 0 {
		t.Error("Expected at least one resolved round")
	}
}

// TestFourSeatSoloRunsToEnd: every AI seat takes turns until someone
// reaches the goal or the round limit hits.
func TestFourSeatSoloRunsToEnd(t *testing.T) {
	m, logger, _ := runToCompletion(t, MatchConfig{Mode: ModeSolo, Players: 4, Seed: 23}, NewScriptedController(t, "P1"))
	assertSaneEnd(t, m, logger)
}

// TestDuoRunsToEnd: a 2v2 quick match finishes on its own.
func TestDuoRunsToEnd(t *testing.T) {
	m, logger, out := runToCompletion(t, MatchConfig{Mode: ModeDuo, Players: 4, Seed: 5}, NewScriptedController(t, "P1"))
	assertSaneEnd(t, m, logger)
	if out.Won && !contains(out.Winners, HumanID) {
		t.Errorf("a quick duo win needs the human among the winners, got %v", out.Winners)
	}
}

// TestScriptedOpeningPlays: the scripted human's first value card is the
// one it asked for.
func TestScriptedOpeningPlays(t *testing.T) {
	human := NewScriptedController(t, "P1")
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{Mode: ModeSolo, Players: 2, Seed: 9, Logger: logger,
		Controllers: map[string]PlayerController{HumanID: human}, MaxRounds: 1})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := m.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	p1 := m.State.Players[HumanID]
	want := p1.ValueCards()[1]
	human.AddValue(want.Value).AddEndTurn()
	m.State.Current = HumanID

	if err := m.runTurn(); err != nil {
		t.Fatalf("runTurn: %v", err)
	}
	if len(p1.Played.Value) != 1 || p1.Played.Value[0].Value != want.Value {
		t.Errorf("Expected %d on the board, got %v", want.Value, p1.Played.Value)
	}
	if m.State.Current == HumanID {
		t.Error("turn should have passed on")
	}
}
