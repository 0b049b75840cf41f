package game

import (
	"errors"
	"math/rand/v2"

	"github.com/Xael/reversusfinal/internal/log"
)

// errDealFailed reports that a deck could not produce a card even after
// resynthesis.
var errDealFailed = errors.New("deal failed: no cards left")

// BuildDeck expands a rule table's count entries into cards with fresh ids.
// The result is unshuffled.
func BuildDeck(rules *Rules, kind CardKind, nextID func() int) []*Card {
	var cards []*Card
	if kind == CardValue {
		for _, e := range rules.ValueDeck {
			for i := 0; i < e.Count; i++ {
				cards = append(cards, &Card{ID: nextID(), Kind: CardValue, Value: e.Value})
			}
		}
		return cards
	}
	for _, e := range rules.EffectDeck {
		for i := 0; i < e.Count; i++ {
			cards = append(cards, &Card{ID: nextID(), Kind: CardEffect, Effect: e.Name})
		}
	}
	return cards
}

// Shuffle permutes cards in place (Fisher-Yates).
func Shuffle(rng *rand.Rand, cards []*Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// newCardID hands out the next card id for this match.
func (m *Match) newCardID() int {
	m.State.NextCardID++
	return m.State.NextCardID
}

// DrawCard pops the top card of a deck. An empty deck is refilled from its
// discard pile; if both are empty a new deck is built from the rules.
// Returns nil only when even that yields nothing.
func (m *Match) DrawCard(kind CardKind) *Card {
	gs := m.State
	deck := gs.Decks.of(kind)
	if len(*deck) == 0 {
		discard := gs.Discard.of(kind)
		if len(*discard) > 0 {
			*deck = *discard
			*discard = nil
			Shuffle(m.rng, *deck)
			m.log(log.NewDeckEvent(kind.String(), false))
		} else {
			*deck = BuildDeck(m.Rules, kind, m.newCardID)
			Shuffle(m.rng, *deck)
			m.log(log.NewDeckEvent(kind.String(), true))
		}
	}
	if len(*deck) == 0 {
		return nil
	}
	card := (*deck)[len(*deck)-1]
	*deck = (*deck)[:len(*deck)-1]
	return card
}

// discard moves a card to its discard pile. Ephemeral cards vanish.
func (m *Match) discard(c *Card) {
	if c == nil || c.Ephemeral {
		return
	}
	c.Locked = false
	c.LockedEffect = EffectNone
	c.ReversedCategory = CategoryNone
	pile := m.State.Discard.of(c.Kind)
	*pile = append(*pile, c)
}

// replenish deals each active player up to the hand limits. A failed deal
// skips the rest of that pile for that player and reports false.
func (m *Match) replenish() bool {
	ok := true
	for _, p := range m.State.ActivePlayers() {
		for len(p.ValueCards()) < m.Rules.MaxValueCards {
			c := m.DrawCard(CardValue)
			if c == nil {
				ok = false
				break
			}
			p.Hand = append(p.Hand, c)
		}
		for p.effectHandCount() < m.Rules.MaxEffectCards {
			c := m.DrawCard(CardEffect)
			if c == nil {
				ok = false
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}
	return ok
}
