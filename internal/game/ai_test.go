package game

import (
	"testing"

	"github.com/Xael/reversusfinal/internal/log"
)

// TestAIValueChoice: play high when it can take the lead, low otherwise.
func TestAIValueChoice(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	p1, p2 := m.State.Players["player-1"], m.State.Players["player-2"]
	giveValues(m, p2, 2, 6, 10)

	p1.LiveScore = 5
	if c := m.ChooseValueCard(p2); c == nil || c.Value != 10 {
		t.Errorf("Expected 10 to take the lead, got %v", c)
	}
	p1.LiveScore = 30
	if c := m.ChooseValueCard(p2); c == nil || c.Value != 2 {
		t.Errorf("Expected 2 when the lead is out of reach, got %v", c)
	}
	p2.PlayedValueCardThisTurn = true
	if c := m.ChooseValueCard(p2); c != nil {
		t.Errorf("Expected no value play after one this turn, got %v", c)
	}
}

// TestReversumAlwaysPlaysHigh: the Reversum personality plays its highest.
func TestReversumAlwaysPlaysHigh(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Battle: BattleReversum})
	p1, rv := m.State.Players["player-1"], m.State.Players["player-2"]
	giveValues(m, rv, 4, 8)
	p1.LiveScore = 100
	if c := m.ChooseValueCard(rv); c == nil || c.Value != 8 {
		t.Errorf("Expected 8, got %v", c)
	}
}

// TestGenericAIBuffsSelf: with only Mais, the default AI helps itself.
func TestGenericAIBuffsSelf(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	p2 := m.State.Players["player-2"]
	mais := giveEffects(m, p2, EffectMais)[0]

	mv := m.ChooseEffectMove(p2)
	if mv.Card != mais || mv.Target != p2 || mv.Weight != 25 {
		t.Errorf("Expected Mais on self at 25, got %+v", mv)
	}

	p2.Effects.Score = EffectMais
	if mv := m.ChooseEffectMove(p2); mv.Weight != 0 {
		t.Errorf("Expected no move when Mais is already active, got %+v", mv)
	}
}

// TestGenericAIAttacksLeader: Menos goes to the highest live score.
func TestGenericAIAttacksLeader(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 3})
	gs := m.State
	gs.Players["player-1"].LiveScore = 4
	gs.Players["player-3"].LiveScore = 9
	p2 := gs.Players["player-2"]
	giveEffects(m, p2, EffectMais, EffectMenos)

	mv := m.ChooseEffectMove(p2)
	if mv.Target == nil || mv.Target.ID != "player-3" || mv.Weight != 30 {
		t.Errorf("Expected Menos on player-3 at 30, got %+v", mv)
	}
}

// TestGenericAIDefendsWithReversus: a debuffed AI reverses itself.
func TestGenericAIDefendsWithReversus(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	p2 := m.State.Players["player-2"]
	p2.Effects.Movement = EffectDesce
	giveEffects(m, p2, EffectReversus)

	mv := m.ChooseEffectMove(p2)
	if mv.Target != p2 || mv.Category != CategoryMovement || mv.Weight != 40 {
		t.Errorf("Expected Reversus on own movement at 40, got %+v", mv)
	}
}

// TestDuoAIHelpsAlly: a duo AI sends Mais to its partner.
func TestDuoAIHelpsAlly(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeDuo, Players: 4})
	p2 := m.State.Players["player-2"]
	giveEffects(m, p2, EffectMais)

	mv := m.ChooseEffectMove(p2)
	if mv.Target == nil || mv.Target.ID != "player-4" || mv.Weight != 50 {
		t.Errorf("Expected Mais on player-4 at 50, got %+v", mv)
	}
}

// TestReversumAbility: the virtual Reversus Total fires once the human has
// progressed and holds a buff.
func TestReversumAbility(t *testing.T) {
	m, logger := newTestMatch(t, MatchConfig{Battle: BattleReversum})
	gs := m.State
	p1, rv := gs.Players["player-1"], gs.Players["player-2"]
	p1.Position = 4
	p1.Effects.Score = EffectMais

	mv := m.ChooseEffectMove(rv)
	if !mv.Reversum || mv.Weight != 100 || mv.Effect != EffectReversusTotal {
		t.Fatalf("Expected the Reversum ability, got %+v", mv)
	}
	m.executeMove(rv, mv)
	if !gs.ReversumAbilityUsed {
		t.Error("ability should be marked used")
	}
	if p1.Effects.Score != EffectMenos {
		t.Errorf("Expected p1's Mais inverted, got %s", p1.Effects.Score)
	}
	if len(logger.EventsOfType(log.EventAbility)) != 1 {
		t.Error("Expected one ability event")
	}
	if gs.CountCards() != m.Rules.ValueDeckSize()+m.Rules.EffectDeckSize() {
		t.Error("ability card must not enter the piles")
	}

	if mv := m.ChooseEffectMove(rv); mv.Reversum {
		t.Error("ability should not fire twice in a round")
	}
}

// TestAITurnAlwaysPasses: an AI turn ends with the pass counter bumped.
func TestAITurnAlwaysPasses(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	p2 := m.State.Players["player-2"]
	giveValues(m, p2, 2, 4, 6)
	m.State.Current = p2.ID

	m.aiTurn(p2)
	if m.State.ConsecutivePasses != 1 {
		t.Errorf("Expected 1 pass, got %d", m.State.ConsecutivePasses)
	}
	if len(p2.Played.Value) != 1 {
		t.Errorf("Expected one value card played, got %d", len(p2.Played.Value))
	}
	if m.State.Phase != PhasePlaying {
		t.Errorf("Expected playing phase, got %s", m.State.Phase)
	}
}

// TestAITurnRecoversFromPanic: a broken AI turn still counts as a pass.
func TestAITurnRecoversFromPanic(t *testing.T) {
	m, logger := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	p2 := m.State.Players["player-2"]
	p2.Hand = []*Card{nil, nil} // ValueCards dereferences every card

	m.aiTurn(p2)
	if m.State.ConsecutivePasses != 1 {
		t.Errorf("Expected 1 pass, got %d", m.State.ConsecutivePasses)
	}
	if len(logger.EventsOfType(log.EventError)) == 0 {
		t.Error("Expected the panic to be logged")
	}
}
