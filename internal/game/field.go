package game

import (
	"fmt"

	"github.com/Xael/reversusfinal/internal/log"
)

// TriggerFieldEffects fires the unused space under each player, in turn
// order. A space is consumed only when its effect succeeds.
func (m *Match) TriggerFieldEffects() {
	gs := m.State
	current := gs.Current
	defer func() { gs.Current = current }()

	for _, id := range gs.TurnOrder {
		if gs.Over {
			return
		}
		p := gs.Players[id]
		if p == nil || p.Eliminated || p.PathID == -1 {
			continue
		}
		path := gs.PathOf(p)
		if path == nil || p.Position < 1 || p.Position > len(path.Spaces) {
			continue
		}
		space := path.Spaces[p.Position-1]
		if space.Used {
			continue
		}
		if m.triggerSpace(p, space) {
			space.Used = true
		}
	}
	m.render()
}

func (m *Match) triggerSpace(p *Player, space *Space) bool {
	gs := m.State
	if space.Color == ColorRed && p.AIType == AIReversum {
		m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), p.ID, p.Name+" é imune ao efeito da casa vermelha!"))
		return true
	}

	switch space.Color {
	case ColorBlack:
		m.blackHole(p, space)
		return true

	case ColorYellow:
		from := p.Position
		if p.AIType == AIVersatrix {
			p.Position = min(m.Rules.WinningPosition, p.Position+1)
		} else {
			p.Position = max(1, p.Position-1)
		}
		m.log(log.NewMovementEvent(gs.Round, p.ID, p.Name, from, p.Position))
		m.acknowledge(fmt.Sprintf("%s parou na casa de Versatrix!", p.Name))
		return true

	case ColorStar:
		p.Stars++
		m.Announcer.PlaySound("conquista")
		m.log(log.NewStarGainedEvent(gs.Round, p.ID, p.Name, p.Stars))
		return true
	}

	if space.Effect == FieldNone {
		return false
	}
	positive := space.Color == ColorBlue
	m.log(log.NewFieldEffectEvent(gs.Round, p.ID, p.Name, space.Effect.String(), positive))
	m.acknowledge(fmt.Sprintf("%s: %s", space.Effect, m.Rules.Description(space.Effect)))
	return m.ExecuteFieldEffect(p, space.Effect, positive)
}

// blackHole costs the final battle's team a heart, or eliminates the player
// outright elsewhere.
func (m *Match) blackHole(p *Player, space *Space) {
	gs := m.State
	if gs.Battle == BattleNecroversoFinal {
		if contains(gs.TeamA, p.ID) {
			old := gs.TeamAHearts
			gs.TeamAHearts = max(0, gs.TeamAHearts-1)
			m.log(log.NewHeartChangeEvent(gs.Round, p.ID, "Sua equipe", old, gs.TeamAHearts, "buraco negro"))
		} else {
			old := gs.TeamBHearts
			gs.TeamBHearts = max(0, gs.TeamBHearts-1)
			m.log(log.NewHeartChangeEvent(gs.Round, p.ID, "Equipe Necroverso", old, gs.TeamBHearts, "buraco negro"))
		}
		m.Announcer.PlaySound("coracao")
		if gs.TeamAHearts <= 0 || gs.TeamBHearts <= 0 {
			m.finish(gs.TeamBHearts <= 0, "hearts")
		}
		return
	}

	m.Announcer.PlaySound("destruido")
	m.eliminate(p, fmt.Sprintf("buraco negro na casa %d", space.ID))
	remaining := gs.ActivePlayers()
	if len(remaining) <= 1 && gs.Story {
		gs.Winners = ids(remaining)
		m.finish(len(remaining) == 1 && remaining[0].ID == HumanID, "eliminated")
	}
}

// eliminate removes a player from play. Heart-based seats end at zero.
func (m *Match) eliminate(p *Player, reason string) {
	if p.Eliminated {
		return
	}
	p.Eliminated = true
	if p.MaxHearts > 0 {
		p.Hearts = 0
	}
	m.log(log.NewEliminatedEvent(m.State.Round, p.ID, p.Name, reason))
}

// ExecuteFieldEffect runs a named field effect for p. It reports false when
// the effect could not take place, leaving the space re-triggerable.
func (m *Match) ExecuteFieldEffect(p *Player, name FieldEffect, positive bool) bool {
	gs := m.State
	partner := gs.Partner(p.ID)

	switch name {
	case FieldJogoAberto:
		gs.RevealedHands = ids(gs.Opponents(p.ID))
		return true

	case FieldReversusTotal:
		gs.ReversusTotalActive = true
		m.announce("Reversus Total!", "reversus-total")
		m.Announcer.PlaySound("reversustotal")
		m.log(log.NewReversusTotalEvent(gs.Round, p.ID, p.Name))
		return true

	case FieldCartaMenor, FieldCartaMaior:
		pick := (*Player).lowestValue
		if name == FieldCartaMaior {
			pick = (*Player).highestValue
		}
		ok := m.redraw(p, pick)
		if partner != nil {
			ok = m.redraw(partner, pick) || ok
		}
		return ok

	case FieldTrocaJusta:
		other := partner
		if other == nil {
			other = m.chooseSwapTarget(p)
		}
		return m.swap(p, other, true)

	case FieldTrocaInjusta:
		other := partner
		if other == nil {
			opps := gs.Opponents(p.ID)
			if len(opps) == 0 {
				return false
			}
			other = opps[m.rng.IntN(len(opps))]
		}
		return m.swap(p, other, false)

	case FieldTotalRevesusNada:
		if partner != nil {
			acted := false
			if effs := discardableEffects(p); len(effs) > 0 {
				m.discardFromHand(p, effs[m.rng.IntN(len(effs))])
				acted = true
			}
			for {
				effs := discardableEffects(partner)
				if len(effs) <= 1 {
					break
				}
				m.discardFromHand(partner, effs[0])
				acted = true
			}
			return acted
		}
		effs := discardableEffects(p)
		for _, c := range effs {
			m.discardFromHand(p, c)
		}
		return len(effs) > 0

	case FieldEstrelaSubente:
		p.Stars++
		m.log(log.NewStarGainedEvent(gs.Round, p.ID, p.Name, p.Stars))
		return true

	case FieldEstrelaCadente:
		if p.Stars == 0 {
			return false
		}
		p.Stars--
		return true

	case FieldRouboDaEstrela, FieldDoandoUmaEstrela:
		if p.Stars == 0 {
			return false
		}
		opps := gs.Opponents(p.ID)
		if len(opps) == 0 {
			return false
		}
		thief := opps[m.rng.IntN(len(opps))]
		p.Stars--
		thief.Stars++
		m.log(log.NewStarGainedEvent(gs.Round, thief.ID, thief.Name, thief.Stars))
		return true
	}

	applies := []string{p.ID}
	if partner != nil && (name == FieldImunidade || name == FieldDesafio || name == FieldImpulso) {
		applies = append(applies, partner.ID)
	}
	for _, id := range applies {
		gs.FieldEffects = append(gs.FieldEffects, ActiveFieldEffect{Name: name, Positive: positive, AppliesTo: id})
	}
	return true
}

// redraw discards the picked value card and draws a replacement.
func (m *Match) redraw(p *Player, pick func(*Player) *Card) bool {
	c := pick(p)
	if c == nil {
		m.log(log.NewInfoEvent(m.State.Round, m.State.Phase.String(), p.ID, p.Name+" não tem cartas de valor."))
		return false
	}
	p.RemoveCard(c.ID)
	m.discard(c)
	if n := m.DrawCard(CardValue); n != nil {
		p.Hand = append(p.Hand, n)
	}
	return true
}

// chooseSwapTarget lets the human pick the Troca Justa opponent; AI seats
// pick at random.
func (m *Match) chooseSwapTarget(p *Player) *Player {
	gs := m.State
	opps := gs.Opponents(p.ID)
	if len(opps) == 0 {
		return nil
	}
	if !p.IsHuman || m.Controllers[p.ID] == nil {
		return opps[m.rng.IntN(len(opps))]
	}
	opts := make([]Option, 0, len(opps)+1)
	for _, o := range opps {
		opts = append(opts, Option{Label: o.Name, Value: o.ID})
	}
	opts = append(opts, Option{Label: CancelLabel})
	prev := gs.Phase
	gs.Phase = PhaseAwaitingInput
	idx, err := m.ask(m.ctx, p, Prompt{
		Kind:    PromptFieldTarget,
		Text:    "Troca Justa: escolha um oponente para trocar sua carta de valor mais baixa pela mais alta dele.",
		Options: opts,
	})
	gs.Phase = prev
	if err != nil || opts[idx].Value == "" {
		return nil
	}
	return gs.Players[opts[idx].Value]
}

// swap trades value cards in place. fair gives the lowest and takes the
// other's highest; unfair gives the highest and takes the lowest.
func (m *Match) swap(p, other *Player, fair bool) bool {
	if other == nil {
		return false
	}
	give, take := p.lowestValue(), other.highestValue()
	if !fair {
		give, take = p.highestValue(), other.lowestValue()
	}
	if give == nil || take == nil {
		m.log(log.NewInfoEvent(m.State.Round, m.State.Phase.String(), p.ID,
			fmt.Sprintf("A troca falhou: %s ou %s não tinham cartas.", p.Name, other.Name)))
		return false
	}
	p.replaceInHand(give.ID, take)
	other.replaceInHand(take.ID, give)
	m.log(log.NewInfoEvent(m.State.Round, m.State.Phase.String(), p.ID,
		fmt.Sprintf("%s trocou %s pela %s de %s.", p.Name, give.Name(), take.Name(), other.Name)))
	return true
}

// discardableEffects lists effect cards a field effect may throw away.
// Curse and Versatrix cards stay.
func discardableEffects(p *Player) []*Card {
	var out []*Card
	for _, c := range p.EffectCards() {
		if !c.Ephemeral {
			out = append(out, c)
		}
	}
	return out
}

func (m *Match) discardFromHand(p *Player, c *Card) {
	p.RemoveCard(c.ID)
	m.discard(c)
	m.log(log.NewInfoEvent(m.State.Round, m.State.Phase.String(), p.ID, p.Name+" descartou "+c.Name()+"."))
}

// landingAbilities fires the story abilities tied to where a pawn stops.
func (m *Match) landingAbilities(p *Player) {
	gs := m.State
	if !gs.Story {
		return
	}
	if gs.KingBattle {
		if path := gs.PathOf(p); path != nil && p.Position > 0 && p.Position <= len(path.Spaces) {
			space := path.Spaces[p.Position-1]
			if space.Heart && !space.Used {
				old := p.Hearts
				maxHearts := p.MaxHearts
				if maxHearts == 0 {
					maxHearts = 6
				}
				p.Hearts = min(maxHearts, p.Hearts+1)
				space.Used = true
				m.Announcer.PlaySound("coracao")
				m.log(log.NewHeartChangeEvent(gs.Round, p.ID, p.Name, old, p.Hearts, "coração coletado"))
			}
		}
	}
	if gs.Battle == BattleContravox && p.ID == HumanID && gs.ContravoxUses > 0 {
		switch p.Position {
		case 3, 6, 9:
			p.Obscured = true
			gs.ContravoxUses--
			m.Announcer.PlaySound("confusao")
			m.announce("!OÃSUFNOC", "reversus")
			m.log(log.NewAbilityEvent(gs.Round, "", "Contravox", "!OÃSUFNOC"))
		}
	}
}

// TriggerNecroX swaps a random card in target's hand for a blocked curse
// until the next round.
func (m *Match) TriggerNecroX(caster, target *Player) {
	gs := m.State
	if target == nil || len(target.Hand) == 0 {
		m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), caster.ID,
			fmt.Sprintf("%s tentou usar Necro X, mas o alvo não tinha cartas!", caster.Name)))
		return
	}
	gs.NecroXUsed = true
	m.log(log.NewDialogueEvent(gs.Round, caster.ID, caster.Name, "Sinta o poder da escuridão!"))
	m.Announcer.PlaySound("x")

	if target.ReplacedByCurse != nil {
		return // one curse per hand
	}
	idx := m.rng.IntN(len(target.Hand))
	original := target.Hand[idx]
	target.ReplacedByCurse = original
	target.Hand[idx] = &Card{ID: m.newCardID(), Kind: CardEffect, Effect: EffectNecroXCurse, Blocked: true, Ephemeral: true}
	m.log(log.NewCurseEvent(gs.Round, caster.ID, caster.Name, target.Name, original.Name()))
	m.render()
}

// revertCurse hands back the card a curse replaced.
func (m *Match) revertCurse(p *Player) {
	if p.ReplacedByCurse == nil {
		return
	}
	restored := false
	for i, c := range p.Hand {
		if c.Effect == EffectNecroXCurse {
			p.Hand[i] = p.ReplacedByCurse
			restored = true
			break
		}
	}
	if !restored {
		p.Hand = append(p.Hand, p.ReplacedByCurse)
	}
	p.ReplacedByCurse = nil
}

func ids(players []*Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}
