package achievements

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/game"
)

// Persister stores a profile's unlocked ids.
type Persister interface {
	SaveAchievements(ctx context.Context, profile string, ids []string) error
	LoadAchievements(ctx context.Context, profile string) ([]string, error)
}

// Unlocks are the menu features gated behind achievements.
type Unlocks struct {
	Inversus bool `json:"inversus"`
	Narrador bool `json:"narrador"`
	PvP      bool `json:"pvp"`
	All      bool `json:"all"`
}

// Tracker is the achievement sink for one profile. Every new grant is
// written through to the persister.
type Tracker struct {
	mu       sync.Mutex
	profile  string
	unlocked map[string]bool
	store    Persister
	logger   *zap.Logger
	timeout  time.Duration
}

var _ game.AchievementSink = (*Tracker)(nil)

// NewTracker loads the profile's unlocks. A nil store keeps grants in
// memory only. Unknown ids found in storage are dropped.
func NewTracker(ctx context.Context, profile string, store Persister, logger *zap.Logger) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		profile:  profile,
		unlocked: make(map[string]bool),
		store:    store,
		logger:   logger,
		timeout:  5 * time.Second,
	}
	if store == nil {
		return t, nil
	}
	ids, err := store.LoadAchievements(ctx, profile)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := byID[id]; ok {
			t.unlocked[id] = true
		}
	}
	return t, nil
}

// Grant unlocks id. Only catalog ids can be granted.
func (t *Tracker) Grant(id string) bool {
	if _, ok := byID[id]; !ok {
		return false
	}
	t.mu.Lock()
	if t.unlocked[id] {
		t.mu.Unlock()
		return false
	}
	t.unlocked[id] = true
	ids := t.idsLocked()
	t.mu.Unlock()

	t.logger.Info("achievement unlocked", zap.String("profile", t.profile), zap.String("id", id))
	if t.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.store.SaveAchievements(ctx, t.profile, ids); err != nil {
			t.logger.Error("persist achievements", zap.String("profile", t.profile), zap.Error(err))
		}
	}
	return true
}

func (t *Tracker) Has(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked[id]
}

// Title is the display name of id, or id itself when unknown.
func (t *Tracker) Title(id string) string {
	if a, ok := byID[id]; ok {
		return a.Name
	}
	return id
}

// Unlocked returns the unlocked ids in catalog order.
func (t *Tracker) Unlocked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idsLocked()
}

func (t *Tracker) idsLocked() []string {
	ids := make([]string, 0, len(t.unlocked))
	for id := range t.unlocked {
		ids = append(ids, id)
	}
	order := make(map[string]int, len(Catalog))
	for i, a := range Catalog {
		order[a.ID] = i
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	return ids
}

// Unlocks reports which gated features are open.
func (t *Tracker) Unlocks() Unlocks {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Unlocks{
		Inversus: t.unlocked["true_end_final"],
		Narrador: t.unlocked["inversus_win"],
		PvP:      t.unlocked["120%_unlocked"],
		All:      len(t.unlocked) == len(Catalog),
	}
}
