package game

import (
	"github.com/Xael/reversusfinal/internal/log"
)

// ApplyEffect resolves one effect card against target. A missing or
// eliminated target makes it a no-op.
func (m *Match) ApplyEffect(card *Card, target, caster *Player, category Category) {
	gs := m.State
	if target == nil || target.Eliminated {
		return
	}

	name := card.EffectiveEffect()

	if gs.HasFieldEffect(FieldImunidade, target.ID) && name.IsNegative() {
		m.log(log.NewImmuneEvent(gs.Round, caster.ID, target.Name, name.String()))
		return
	}

	if gs.ReversusTotalActive && name != EffectReversusTotal {
		if inv := name.Inverse(); inv != EffectNone {
			m.log(log.NewEffectInvertedEvent(gs.Round, caster.ID, name.String(), inv.String()))
			name = inv
		}
	}

	m.announceEffect(name)

	switch name {
	case EffectMais, EffectMenos, EffectNecroX, EffectNecroXInvertido:
		target.Effects.Score = name
		m.log(log.NewEffectAppliedEvent(gs.Round, caster.ID, caster.Name, card.Name(), target.Name, name.String()))

	case EffectSobe, EffectDesce, EffectPula:
		target.Effects.Movement = name
		m.log(log.NewEffectAppliedEvent(gs.Round, caster.ID, caster.Name, card.Name(), target.Name, name.String()))

	case EffectReversus:
		m.reverse(target, caster, category)

	case EffectReversusTotal:
		m.reversusTotal(caster)

	case EffectVersatrix:
		for i := 0; i < 2; i++ {
			c := m.DrawCard(CardEffect)
			if c == nil {
				m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), caster.ID, errDealFailed))
				break
			}
			target.Hand = append(target.Hand, c)
		}
		card.Cooldown = versatrixCooldown
		m.log(log.NewEffectAppliedEvent(gs.Round, caster.ID, caster.Name, card.Name(), target.Name, "compra 2 cartas de efeito"))
	}
}

// reverse inverts the target's active effect in one category and discards
// the play-zone card that set it.
func (m *Match) reverse(target, caster *Player, category Category) {
	gs := m.State
	var family map[EffectKind]bool
	switch category {
	case CategoryScore:
		family = map[EffectKind]bool{EffectMais: true, EffectMenos: true, EffectNecroX: true, EffectNecroXInvertido: true, EffectVersatrix: true}
	case CategoryMovement:
		family = map[EffectKind]bool{EffectSobe: true, EffectDesce: true, EffectPula: true}
	default:
		return
	}
	for i, c := range target.Played.Effect {
		if family[c.Effect] {
			target.Played.Effect = append(target.Played.Effect[:i], target.Played.Effect[i+1:]...)
			m.discard(c)
			break
		}
	}

	var result EffectKind
	if category == CategoryScore {
		target.Effects.Score = target.Effects.Score.Inverse()
		result = target.Effects.Score
	} else {
		// Pula has no inverse; reversing it cancels the jump.
		target.Effects.Movement = target.Effects.Movement.Inverse()
		result = target.Effects.Movement
	}
	m.log(log.NewEffectReversedEvent(gs.Round, caster.ID, caster.Name, target.Name, category.String(), result.String()))
}

// reversusTotal switches the round's global inversion on and inverts every
// active effect whose slot is not locked.
func (m *Match) reversusTotal(caster *Player) {
	gs := m.State
	gs.ReversusTotalActive = true
	m.log(log.NewReversusTotalEvent(gs.Round, caster.ID, caster.Name))

	for _, id := range gs.TurnOrder {
		p := gs.Players[id]
		if p == nil {
			continue
		}
		if p.Effects.Score != EffectNone && !p.slotLocked(CategoryScore) {
			if inv := p.Effects.Score.Inverse(); inv != EffectNone {
				p.Effects.Score = inv
			}
		}
		if p.Effects.Movement != EffectNone && p.Effects.Movement != EffectPula && !p.slotLocked(CategoryMovement) {
			if inv := p.Effects.Movement.Inverse(); inv != EffectNone {
				p.Effects.Movement = inv
			}
		}
	}
	m.offerXaelChallenge()
}

// offerXaelChallenge announces the secret challenger once per story run.
func (m *Match) offerXaelChallenge() {
	gs := m.State
	if !gs.Story || gs.XaelOffered || gs.XaelStarted || gs.Inversus {
		return
	}
	gs.XaelOffered = true
	m.Announcer.PlaySound("xael")
	m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), "", "Um Desafiante secreto apareceu!"))
}

func (m *Match) announceEffect(name EffectKind) {
	switch name {
	case EffectReversusTotal:
		m.announce("Reversus Total!", "reversus-total")
		m.Announcer.PlaySound("reversustotal")
	case EffectReversus:
		m.announce("Reversus!", "reversus")
		m.Announcer.PlaySound("reversus")
	case EffectMais, EffectSobe:
		m.announce(name.String()+"!", "positive")
		m.Announcer.PlaySound(soundKey(name))
	case EffectMenos, EffectDesce, EffectNecroX, EffectNecroXInvertido:
		m.announce(name.String()+"!", "negative")
		m.Announcer.PlaySound(soundKey(name))
	case EffectPula:
		m.announce("Pula!", "neutral")
		m.Announcer.PlaySound("pula")
	case EffectVersatrix:
		m.announce("Carta da Versatrix!", "positive")
		m.Announcer.PlaySound("versatrix")
	}
}

func soundKey(e EffectKind) string {
	switch e {
	case EffectMais:
		return "mais"
	case EffectMenos:
		return "menos"
	case EffectSobe:
		return "sobe"
	case EffectDesce:
		return "desce"
	default:
		return "x"
	}
}
