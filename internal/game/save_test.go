package game

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// TestSnapshotRequiresStory: quick matches cannot be saved.
func TestSnapshotRequiresStory(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	if _, err := m.Snapshot(StoryState{}); !errors.Is(err, ErrNotStory) {
		t.Errorf("Expected ErrNotStory, got %v", err)
	}
}

// TestSaveRoundTrip: a story battle survives encode and decode, spoken
// lines included.
func TestSaveRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	m, _ := newTestMatch(t, MatchConfig{Battle: BattleContravox, Clock: func() time.Time { return at }})
	gs := m.State
	gs.SpokenLines["contravox-otiderca oãn uE"] = struct{}{}
	gs.ElapsedSeconds = 95
	gs.Players[HumanID].Position = 4

	doc, err := m.Snapshot(StoryState{Node: "pre_contravox_intro"})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if doc.ElapsedSeconds != 95 || !doc.SavedAt.Equal(at) || doc.SavedAt.Location() != time.UTC {
		t.Errorf("unexpected document header: %+v", doc)
	}
	data, err := EncodeSave(doc)
	if err != nil {
		t.Fatalf("EncodeSave: %v", err)
	}
	back, err := DecodeSave(data)
	if err != nil {
		t.Fatalf("DecodeSave: %v", err)
	}
	if !reflect.DeepEqual(doc.GameState, back.GameState) {
		t.Error("game state changed across the round trip")
	}
	if !back.GameState.SpokenLines.Has("contravox-otiderca oãn uE") {
		t.Error("spoken lines lost")
	}
	if back.StoryState.Node != "pre_contravox_intro" || back.ID != doc.ID {
		t.Errorf("story state lost: %+v", back.StoryState)
	}
}

// TestDecodeRejectsCorruptSaves: broken documents are reported as corrupt.
func TestDecodeRejectsCorruptSaves(t *testing.T) {
	cases := map[string]string{
		"garbage":           "{not json",
		"missing gameState": `{"id":"x"}`,
		"no players":        `{"id":"x","gameState":{"players":{},"turnOrder":[]}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeSave([]byte(data)); !errors.Is(err, ErrCorruptSave) {
				t.Errorf("Expected ErrCorruptSave, got %v", err)
			}
		})
	}
}

// TestResumeMatch: a decoded save continues as the same battle.
func TestResumeMatch(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Battle: BattleVersatrix})
	m.State.Phase = PhaseAwaitingInput
	m.State.Pending = &Prompt{Kind: PromptTarget, Text: "Escolha"}
	doc, err := m.Snapshot(StoryState{})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	r, err := ResumeMatch(MatchConfig{Seed: 7}, doc)
	if err != nil {
		t.Fatalf("ResumeMatch: %v", err)
	}
	if r.ID != m.ID || r.State.Battle != BattleVersatrix {
		t.Errorf("Expected the saved battle, got %s / %s", r.ID, r.State.Battle)
	}
	if r.State.Phase != PhasePlaying || r.State.Pending != nil {
		t.Errorf("open prompts should be dropped on resume, got %s / %v", r.State.Phase, r.State.Pending)
	}
}
