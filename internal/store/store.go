// Package store persists story saves and achievement unlocks per profile.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Xael/reversusfinal/internal/game"
)

// ErrNoSave is returned when a profile has no usable save.
var ErrNoSave = errors.New("no saved game")

// SaveMeta describes a stored save without decoding the game state.
type SaveMeta struct {
	ID             string    `json:"id" mapstructure:"id"`
	Battle         string    `json:"battle" mapstructure:"battle"`
	ElapsedSeconds int       `json:"elapsedSeconds" mapstructure:"elapsedSeconds"`
	SavedAt        time.Time `json:"savedAt" mapstructure:"savedAt"`
}

// SaveStore is implemented by every backend. Each profile holds at most
// one save; writing replaces it.
type SaveStore interface {
	SaveGame(ctx context.Context, profile string, doc *game.SaveDocument) error
	// LoadGame returns ErrNoSave when nothing is stored and an error
	// wrapping game.ErrCorruptSave when the stored bytes are unusable.
	LoadGame(ctx context.Context, profile string) (*game.SaveDocument, error)
	DeleteGame(ctx context.Context, profile string) error
	Meta(ctx context.Context, profile string) (SaveMeta, error)

	SaveAchievements(ctx context.Context, profile string, ids []string) error
	LoadAchievements(ctx context.Context, profile string) ([]string, error)

	Close() error
}

// LoadOrDiscard loads a save and deletes it if it turns out corrupt, so
// that a broken save reads as no save at all.
func LoadOrDiscard(ctx context.Context, s SaveStore, profile string) (*game.SaveDocument, error) {
	doc, err := s.LoadGame(ctx, profile)
	if errors.Is(err, game.ErrCorruptSave) {
		if derr := s.DeleteGame(ctx, profile); derr != nil {
			return nil, derr
		}
		return nil, ErrNoSave
	}
	return doc, err
}

func metaOf(doc *game.SaveDocument) SaveMeta {
	return SaveMeta{
		ID:             doc.ID,
		Battle:         doc.GameState.Battle.String(),
		ElapsedSeconds: doc.ElapsedSeconds,
		SavedAt:        doc.SavedAt.UTC(),
	}
}
