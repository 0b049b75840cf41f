package game

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules is the declarative rule table: constants, deck composition, field
// effect tables, dialogue lines and story-battle presets.
type Rules struct {
	BoardSize            int `yaml:"board_size"`
	NumPaths             int `yaml:"num_paths"`
	WinningPosition      int `yaml:"winning_position"`
	ColoredSpacesPerPath int `yaml:"colored_spaces_per_path"`
	MaxValueCards        int `yaml:"max_value_cards"`
	MaxEffectCards       int `yaml:"max_effect_cards"`
	FinalBattleMinutes   int `yaml:"final_battle_minutes"`
	SpeedRunSeconds      int `yaml:"speed_run_seconds"`

	ValueDeck  []ValueEntry  `yaml:"value_deck"`
	EffectDeck []EffectEntry `yaml:"effect_deck"`

	Players []PlayerEntry `yaml:"players"`
	TeamA   []string      `yaml:"team_a"`
	TeamB   []string      `yaml:"team_b"`

	FieldEffects FieldTables         `yaml:"field_effects"`
	Dialogue     map[string]LineSets `yaml:"dialogue"`
	Battles      []BattlePreset      `yaml:"battles"`
}

// ValueEntry is a value card and how many copies the deck holds.
type ValueEntry struct {
	Value int `yaml:"value"`
	Count int `yaml:"count"`
}

// EffectEntry is an effect card and how many copies the deck holds.
type EffectEntry struct {
	Name  EffectKind `yaml:"name"`
	Count int        `yaml:"count"`
}

// PlayerEntry is a default seat.
type PlayerEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Human bool   `yaml:"human"`
}

// FieldEntry is a named field effect with its display text.
type FieldEntry struct {
	Name        FieldEffect `yaml:"name"`
	Description string      `yaml:"description"`
}

type FieldTables struct {
	Positive     []FieldEntry `yaml:"positive"`
	Negative     []FieldEntry `yaml:"negative"`
	XaelPositive []FieldEntry `yaml:"xael_positive"`
	XaelNegative []FieldEntry `yaml:"xael_negative"`
}

// LineSets holds an opponent's lines for each standing.
type LineSets struct {
	Winning []string `yaml:"winning"`
	Losing  []string `yaml:"losing"`
}

// SeatOverride renames a seat and hands it to a specific AI.
type SeatOverride struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	AI   AIType `yaml:"ai"`
}

// BattlePreset configures a story battle.
type BattlePreset struct {
	ID         Battle         `yaml:"id"`
	Title      string         `yaml:"title"`
	Type       string         `yaml:"type"`
	Mode       Mode           `yaml:"mode"`
	Players    []string       `yaml:"players"`
	Hearts     int            `yaml:"hearts"`
	TeamHearts int            `yaml:"team_hearts"`
	Overrides  []SeatOverride `yaml:"overrides"`
}

// DefaultRules returns the rule table compiled into the binary.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return r
}

// ParseRulesFile loads a rule table from disk.
func ParseRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &r, nil
}

func (r *Rules) validate() error {
	switch {
	case r.BoardSize < 3:
		return fmt.Errorf("board_size %d too small", r.BoardSize)
	case r.NumPaths < 2:
		return fmt.Errorf("num_paths %d too small", r.NumPaths)
	case r.WinningPosition <= 1:
		return fmt.Errorf("winning_position %d too small", r.WinningPosition)
	case r.MaxValueCards < 2:
		return fmt.Errorf("max_value_cards %d too small", r.MaxValueCards)
	case len(r.ValueDeck) == 0 || len(r.EffectDeck) == 0:
		return fmt.Errorf("both decks must have entries")
	case len(r.Players) < 2:
		return fmt.Errorf("need at least 2 players, have %d", len(r.Players))
	}
	if len(r.FieldEffects.Positive) == 0 || len(r.FieldEffects.Negative) == 0 {
		return fmt.Errorf("field effect tables must not be empty")
	}
	seen := make(map[Battle]bool)
	for _, b := range r.Battles {
		if seen[b.ID] {
			return fmt.Errorf("duplicate battle %q", b.ID)
		}
		seen[b.ID] = true
		for _, id := range b.Players {
			if r.Player(id) == nil {
				return fmt.Errorf("battle %q references unknown player %q", b.ID, id)
			}
		}
	}
	return nil
}

// Player looks up a default seat by id.
func (r *Rules) Player(id string) *PlayerEntry {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// Battle looks up a story preset.
func (r *Rules) Battle(id Battle) (*BattlePreset, bool) {
	for i := range r.Battles {
		if r.Battles[i].ID == id {
			return &r.Battles[i], true
		}
	}
	return nil, false
}

// Description returns the display text of a field effect.
func (r *Rules) Description(f FieldEffect) string {
	for _, table := range [][]FieldEntry{
		r.FieldEffects.Positive, r.FieldEffects.Negative,
		r.FieldEffects.XaelPositive, r.FieldEffects.XaelNegative,
	} {
		for _, e := range table {
			if e.Name == f {
				return e.Description
			}
		}
	}
	return ""
}

// ValueDeckSize is the number of cards a freshly built value deck holds.
func (r *Rules) ValueDeckSize() int {
	n := 0
	for _, e := range r.ValueDeck {
		n += e.Count
	}
	return n
}

// EffectDeckSize is the number of cards a freshly built effect deck holds.
func (r *Rules) EffectDeckSize() int {
	n := 0
	for _, e := range r.EffectDeck {
		n += e.Count
	}
	return n
}
