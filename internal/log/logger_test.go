package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestMemoryLoggerSequence: events are numbered in order and filterable.
func TestMemoryLoggerSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewRoundStartEvent(1))
	l.Log(NewTurnStartEvent(1, "player-1", "Você"))
	l.Log(NewRoundStartEvent(2))

	events := l.Events()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("event %d: expected seq %d, got %d", i, i+1, e.Seq)
		}
	}
	if n := len(l.EventsOfType(EventRoundStart)); n != 2 {
		t.Errorf("Expected 2 round starts, got %d", n)
	}
	if last := l.LastEvent(); last.Round != 2 {
		t.Errorf("Expected last event in round 2, got %d", last.Round)
	}
}

// TestTextLoggerWritesLines: each event becomes one formatted line.
func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewRoundStartEvent(3))
	l.Log(NewGameOverEvent(3, true, "chegou ao fim"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "R3 ") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], "Vitória") {
		t.Errorf("Expected the win in %q", lines[1])
	}
	if len(l.Events()) != 2 {
		t.Error("text logger should also keep events in memory")
	}
}

// TestZapLoggerLevels: errors log at error level with structured fields,
// dialogue at debug.
func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewErrorEvent(2, "playing", "player-2", errors.New("sem alvo")))
	l.Log(NewIllegalActionEvent(2, "player-1", "jogada inválida"))
	l.Log(NewPhaseChangeEvent(2, "resolution"))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 zap entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.ErrorLevel, zapcore.WarnLevel, zapcore.DebugLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.Level)
		}
	}
	fields := entries[0].ContextMap()
	if fields["player"] != "player-2" || fields["round"] != int64(2) {
		t.Errorf("unexpected fields %v", fields)
	}
	if _, ok := entries[2].ContextMap()["player"]; ok {
		t.Error("empty player should not be logged")
	}
	if len(l.Events()) != 3 {
		t.Error("zap logger should keep events in memory")
	}
}

// TestZapLoggerNil: a nil zap logger falls back to a no-op.
func TestZapLoggerNil(t *testing.T) {
	l := NewZapLogger(nil)
	l.Log(NewRoundStartEvent(1))
	if len(l.Events()) != 1 {
		t.Error("Expected the event to be kept")
	}
}
