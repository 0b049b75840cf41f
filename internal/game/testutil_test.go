package game

import (
	"context"
	"testing"

	"github.com/Xael/reversusfinal/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script.
// Used in tests to deterministically drive the human seat.
type ScriptedController struct {
	t    *testing.T
	name string

	plays []ScriptedPlay
	pos   int

	// Answers for prompts, matched by option label or value.
	choices   []string
	choicePos int

	Prompts []Prompt
	Events  []log.GameEvent
}

// ScriptedPlay picks a card by value or effect, or ends the turn.
type ScriptedPlay struct {
	Value  int
	Effect EffectKind
	End    bool
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddValue(v int) *ScriptedController {
	sc.plays = append(sc.plays, ScriptedPlay{Value: v})
	return sc
}

func (sc *ScriptedController) AddEffect(e EffectKind) *ScriptedController {
	sc.plays = append(sc.plays, ScriptedPlay{Effect: e})
	return sc
}

func (sc *ScriptedController) AddEndTurn() *ScriptedController {
	sc.plays = append(sc.plays, ScriptedPlay{End: true})
	return sc
}

func (sc *ScriptedController) AddChoice(labelOrValue ...string) *ScriptedController {
	sc.choices = append(sc.choices, labelOrValue...)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	p := state.Players[state.Current]

	if sc.pos < len(sc.plays) {
		// Only consume the scripted play if it is available now.
		scripted := sc.plays[sc.pos]
		for _, a := range actions {
			if scripted.End && a.Type == ActionEndTurn {
				sc.pos++
				return a, nil
			}
			if a.Type != ActionPlayCard {
				continue
			}
			c := p.FindCard(a.CardID)
			if c == nil {
				continue
			}
			if (scripted.Value != 0 && c.Kind == CardValue && c.Value == scripted.Value) ||
				(scripted.Effect != EffectNone && c.Kind == CardEffect && c.Effect == scripted.Effect) {
				sc.pos++
				return a, nil
			}
		}
	}

	// Default: owe a value card -> play the first one; otherwise end the turn.
	if p.MustPlayValue() {
		for _, a := range actions {
			if a.Type != ActionPlayCard {
				continue
			}
			if c := p.FindCard(a.CardID); c != nil && c.Kind == CardValue {
				return a, nil
			}
		}
	}
	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (sc *ScriptedController) Choose(ctx context.Context, state *GameState, prompt Prompt) (int, error) {
	sc.Prompts = append(sc.Prompts, prompt)
	if prompt.Kind == PromptAcknowledge || sc.choicePos >= len(sc.choices) {
		return 0, nil
	}
	want := sc.choices[sc.choicePos]
	sc.choicePos++
	for i, o := range prompt.Options {
		if o.Label == want || (o.Value != "" && o.Value == want) {
			return i, nil
		}
	}
	sc.t.Errorf("[%s] choice %q not among options of %s prompt", sc.name, want, prompt.Kind)
	return len(prompt.Options) - 1, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.Events = append(sc.Events, event)
	return nil
}

// --- Test helpers ---

// newTestMatch builds a seeded match in the playing phase without dealing.
func newTestMatch(t *testing.T, cfg MatchConfig) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	m.State.Phase = PhasePlaying
	return m, logger
}

// clearBoard makes every space plain white so no field effect fires.
func clearBoard(m *Match) {
	for _, path := range m.State.Paths {
		for _, s := range path.Spaces {
			s.Color = ColorWhite
			s.Effect = FieldNone
			s.Heart = false
		}
	}
}

func giveValues(m *Match, p *Player, values ...int) []*Card {
	var out []*Card
	for _, v := range values {
		c := &Card{ID: m.newCardID(), Kind: CardValue, Value: v}
		p.Hand = append(p.Hand, c)
		out = append(out, c)
	}
	return out
}

func giveEffects(m *Match, p *Player, effects ...EffectKind) []*Card {
	var out []*Card
	for _, e := range effects {
		c := &Card{ID: m.newCardID(), Kind: CardEffect, Effect: e}
		p.Hand = append(p.Hand, c)
		out = append(out, c)
	}
	return out
}

func playedValues(m *Match, p *Player, values ...int) {
	for _, v := range values {
		p.Played.Value = append(p.Played.Value, &Card{ID: m.newCardID(), Kind: CardValue, Value: v})
	}
}

func valueSet(p *Player) map[int]int {
	out := make(map[int]int)
	for _, c := range p.ValueCards() {
		out[c.Value]++
	}
	return out
}

func hasCard(cards []*Card, id int) bool {
	for _, c := range cards {
		if c.ID == id {
			return true
		}
	}
	return false
}
