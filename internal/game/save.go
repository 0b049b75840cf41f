package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotStory is returned when saving a match outside story mode.
	ErrNotStory = errors.New("only story progress can be saved")
	// ErrCorruptSave marks a save document that failed to decode or
	// validate. Callers discard it and treat it as absent.
	ErrCorruptSave = errors.New("corrupt save")
)

// StoryState is the story progression stored alongside a battle.
type StoryState struct {
	LostToVersatrix bool   `json:"lostToVersatrix"`
	Node            string `json:"currentStoryNodeId,omitempty"`
}

// SaveDocument is the persisted form of a story battle in progress.
type SaveDocument struct {
	ID             string     `json:"id"`
	GameState      *GameState `json:"gameState"`
	StoryState     StoryState `json:"storyState"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	SavedAt        time.Time  `json:"savedAt"`
}

// Snapshot captures the match for saving. Only story battles can be saved.
func (m *Match) Snapshot(story StoryState) (*SaveDocument, error) {
	if !m.State.Story {
		return nil, ErrNotStory
	}
	gs, err := m.State.Clone()
	if err != nil {
		return nil, err
	}
	return &SaveDocument{
		ID:             uuid.NewString(),
		GameState:      gs,
		StoryState:     story,
		ElapsedSeconds: gs.ElapsedSeconds,
		SavedAt:        m.clock().UTC(),
	}, nil
}

// EncodeSave serializes a save document.
func EncodeSave(doc *SaveDocument) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return b, nil
}

// DecodeSave parses and shape-checks a save document.
func DecodeSave(data []byte) (*SaveDocument, error) {
	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if doc.GameState.SpokenLines == nil {
		doc.GameState.SpokenLines = LineSet{}
	}
	return &doc, nil
}

func (d *SaveDocument) validate() error {
	gs := d.GameState
	switch {
	case gs == nil:
		return errors.New("missing gameState")
	case len(gs.TurnOrder) == 0 || len(gs.Players) == 0:
		return errors.New("no players")
	case !gs.Story:
		return errors.New("not a story battle")
	case gs.Players[gs.Current] == nil:
		return fmt.Errorf("current player %q not seated", gs.Current)
	}
	for _, id := range gs.TurnOrder {
		p := gs.Players[id]
		if p == nil {
			return fmt.Errorf("player %q in turn order but not seated", id)
		}
		if p.PathID >= len(gs.Paths) {
			return fmt.Errorf("player %q on unknown path %d", id, p.PathID)
		}
		for _, c := range p.Hand {
			if c == nil {
				return fmt.Errorf("player %q holds a null card", id)
			}
		}
	}
	return nil
}

// ResumeMatch rebuilds a match from a save document. Prompts open when the
// save was taken are re-asked from the start of that turn.
func ResumeMatch(cfg MatchConfig, doc *SaveDocument) (*Match, error) {
	cfg.Battle = doc.GameState.Battle
	cfg.Mode = doc.GameState.Mode
	m, err := NewMatch(cfg)
	if err != nil {
		return nil, fmt.Errorf("resume save %s: %w", doc.ID, err)
	}
	doc.GameState.ElapsedSeconds = doc.ElapsedSeconds
	m.Resume(doc.GameState)
	return m, nil
}
