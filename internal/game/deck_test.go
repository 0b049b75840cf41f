package game

import (
	"testing"

	"github.com/Xael/reversusfinal/internal/log"
)

// TestDrawResynthesizesEmptyDeck: with deck and discard both empty, a fresh
// deck is built from the rules and the draw succeeds.
func TestDrawResynthesizesEmptyDeck(t *testing.T) {
	m, logger := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	gs := m.State
	gs.Decks.Value = nil
	gs.Discard.Value = nil

	c := m.DrawCard(CardValue)
	if c == nil || c.Kind != CardValue {
		t.Fatalf("Expected a value card, got %v", c)
	}
	if len(gs.Decks.Value) != m.Rules.ValueDeckSize()-1 {
		t.Errorf("Expected %d cards left, got %d", m.Rules.ValueDeckSize()-1, len(gs.Decks.Value))
	}
	if len(logger.EventsOfType(log.EventDeckResynthesized)) != 1 {
		t.Error("Expected a resynthesis event")
	}
}

// TestDrawReshufflesDiscard: an empty deck takes over its discard pile.
func TestDrawReshufflesDiscard(t *testing.T) {
	m, logger := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	gs := m.State
	gs.Discard.Effect = append(gs.Discard.Effect, gs.Decks.Effect...)
	gs.Decks.Effect = nil
	total := len(gs.Discard.Effect)

	if c := m.DrawCard(CardEffect); c == nil {
		t.Fatal("Expected a card from the reshuffled discard")
	}
	if len(gs.Discard.Effect) != 0 || len(gs.Decks.Effect) != total-1 {
		t.Errorf("Expected discard moved into deck, got deck=%d discard=%d", len(gs.Decks.Effect), len(gs.Discard.Effect))
	}
	if len(logger.EventsOfType(log.EventDeckReshuffle)) != 1 {
		t.Error("Expected a reshuffle event")
	}
}

// TestCardConservation: deals, plays and round resets keep the card count.
func TestCardConservation(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 4})
	clearBoard(m)
	gs := m.State
	want := m.Rules.ValueDeckSize() + m.Rules.EffectDeckSize()
	if got := gs.CountCards(); got != want {
		t.Fatalf("Expected %d cards at start, got %d", want, got)
	}

	if !m.replenish() {
		t.Fatal("replenish failed")
	}
	for _, p := range gs.ActivePlayers() {
		c := p.ValueCards()[0]
		m.PlayCard(p, c, p.ID, PlayOptions{})
	}
	if got := gs.CountCards(); got != want {
		t.Errorf("after plays: expected %d, got %d", want, got)
	}

	m.ResolveRound()
	if got := gs.CountCards(); got != want {
		t.Errorf("after round reset: expected %d, got %d", want, got)
	}
}

// TestDiscardDropsEphemeral: ability cards never reach a pile.
func TestDiscardDropsEphemeral(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2})
	m.discard(&Card{ID: m.newCardID(), Kind: CardEffect, Effect: EffectReversusTotal, Ephemeral: true})
	if len(m.State.Discard.Effect) != 0 {
		t.Error("ephemeral card entered the discard pile")
	}

	locked := &Card{ID: m.newCardID(), Kind: CardEffect, Effect: EffectReversus, Locked: true, LockedEffect: EffectMais, ReversedCategory: CategoryScore}
	m.discard(locked)
	if locked.Locked || locked.LockedEffect != EffectNone || locked.ReversedCategory != CategoryNone {
		t.Errorf("discard should clear annotations, got %+v", locked)
	}
}

// TestReplenishSkipsOnlyFailedPile: an empty effect table stops effect
// deals but every player still gets value cards.
func TestReplenishSkipsOnlyFailedPile(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 3})
	rules := *m.Rules
	rules.EffectDeck = nil
	m.Rules = &rules
	gs := m.State
	gs.Decks.Effect, gs.Discard.Effect = nil, nil
	for _, p := range gs.ActivePlayers() {
		p.Hand = nil
	}

	if m.replenish() {
		t.Fatal("Expected replenish to report the failed effect deal")
	}
	for _, p := range gs.ActivePlayers() {
		if got := len(p.ValueCards()); got != m.Rules.MaxValueCards {
			t.Errorf("%s: expected %d value cards, got %d", p.ID, m.Rules.MaxValueCards, got)
		}
		if p.effectHandCount() != 0 {
			t.Errorf("%s: expected no effect cards, got %d", p.ID, p.effectHandCount())
		}
	}
}
