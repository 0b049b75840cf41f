package game

import (
	"fmt"
	"sort"

	"github.com/Xael/reversusfinal/internal/log"
)

// Move is a candidate effect play for an AI seat.
type Move struct {
	Card     *Card
	Effect   EffectKind // set instead of Card for ability plays
	Target   *Player
	Category Category
	Weight   int
	Reason   string
	Reversum bool
}

func (mv *Move) name() string {
	if mv.Card != nil {
		return mv.Card.Name()
	}
	return mv.Effect.String()
}

// consider replaces the current best when weight is strictly greater.
func (mv *Move) consider(card *Card, target *Player, weight int, reason string) bool {
	if weight <= mv.Weight {
		return false
	}
	*mv = Move{Card: card, Target: target, Weight: weight, Reason: reason}
	return true
}

// aiTurn plays one AI turn: at most one value card, side abilities, and at
// most one effect card. The turn always ends as a pass.
func (m *Match) aiTurn(p *Player) {
	gs := m.State
	gs.Phase = PhasePaused
	m.render()

	defer func() {
		if r := recover(); r != nil {
			m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), p.ID, fmt.Errorf("ai turn: %v", r)))
		}
		if gs.Over {
			return
		}
		gs.ConsecutivePasses++
		m.log(log.NewPassEvent(gs.Round, p.ID, p.Name, gs.ConsecutivePasses))
		gs.Phase = PhasePlaying
	}()

	m.tryToSpeak(p)
	m.pause(m.thinkDelay)

	if c := m.ChooseValueCard(p); c != nil {
		m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), p.ID, fmt.Sprintf("%s joga a carta de valor %d.", p.Name, c.Value)))
		if err := m.PlayCard(p, c, p.ID, PlayOptions{}); err != nil {
			m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), p.ID, err))
		}
	}
	if gs.Over {
		return
	}

	m.aiAbilities(p)
	mv := m.ChooseEffectMove(p)
	if mv.Weight <= 0 || mv.Target == nil {
		return
	}
	m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), p.ID, fmt.Sprintf("%s decide jogar %s %s.", p.Name, mv.name(), mv.Reason)))
	m.executeMove(p, mv)
}

// ChooseValueCard picks the value card an AI seat plays, or nil when it
// owes none.
func (m *Match) ChooseValueCard(p *Player) *Card {
	if !p.MustPlayValue() {
		return nil
	}
	cards := append([]*Card(nil), p.ValueCards()...)
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Value < cards[j].Value })
	low, high := cards[0], cards[len(cards)-1]

	if p.AIType == AINecroversoFinal || p.AIType == AIReversum {
		return high
	}
	best, found := 0, false
	for _, o := range m.State.Opponents(p.ID) {
		if !found || o.LiveScore > best {
			best, found = o.LiveScore, true
		}
	}
	resto := 0
	if p.Resto != nil {
		resto = p.Resto.Value
	}
	if !found || p.LiveScore+resto+high.Value > best {
		return high
	}
	return low
}

// leader returns the highest live score among candidates. Ties go to the
// earliest in turn order.
func leader(candidates []*Player) *Player {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]*Player(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LiveScore > sorted[j].LiveScore })
	return sorted[0]
}

func (m *Match) activeOf(ids []string) []*Player {
	var out []*Player
	for _, id := range ids {
		if p := m.State.Players[id]; p != nil && !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

func buffed(p *Player) bool {
	return p.Effects.Score == EffectMais || p.Effects.Movement == EffectSobe
}

func debuffed(p *Player) bool {
	return p.Effects.Score == EffectMenos || p.Effects.Movement == EffectDesce
}

// reversedSlot is the category a Reversus aimed at p should flip.
func reversedSlot(p *Player, scoreEffect EffectKind) Category {
	if p.Effects.Score == scoreEffect {
		return CategoryScore
	}
	return CategoryMovement
}

// aiAbilities fires the personality side abilities that do not consume a
// hand card.
func (m *Match) aiAbilities(p *Player) {
	gs := m.State
	switch p.AIType {
	case AINecroversoFinal:
		if !gs.NecroXUsed && m.rng.Float64() < 0.5 {
			if targets := m.activeOf([]string{HumanID, "player-4"}); len(targets) > 0 {
				m.TriggerNecroX(p, targets[m.rng.IntN(len(targets))])
			}
		}

	case AIInversus:
		lead := leader(gs.Opponents(p.ID))
		r := m.rng.Float64()
		switch {
		case r < 0.15 && !gs.ReversusTotalActive:
			m.playAbility(p, EffectReversusTotal, p.ID, PlayOptions{})
		case r < 0.30 && lead != nil:
			lead.Obscured = true
			m.Announcer.PlaySound("confusao")
			m.announce("!OÃSUFNOC", "reversus")
			m.log(log.NewAbilityEvent(gs.Round, p.ID, p.Name, "confundiu as cartas de "+lead.Name))
		case r < 0.45 && lead != nil && !gs.NecroXUsed:
			m.TriggerNecroX(p, lead)
		}
	}
}

// ChooseEffectMove scores the seat's playable effect cards by personality
// and returns the best. A zero Weight means no play.
func (m *Match) ChooseEffectMove(p *Player) Move {
	gs := m.State
	var effects []*Card
	for _, c := range p.EffectCards() {
		if !c.Blocked && c.Effect != EffectNecroXCurse && c.Effect != EffectVersatrix {
			effects = append(effects, c)
		}
	}
	hasFreePath := len(gs.FreePaths()) > 0

	var best Move
	switch {
	case gs.Mode == ModeDuo && !gs.FinalBoss:
		ally := gs.Partner(p.ID)
		var opponents []*Player
		for _, o := range gs.Opponents(p.ID) {
			if !contains(gs.Team(p.ID), o.ID) {
				opponents = append(opponents, o)
			}
		}
		lead := leader(opponents)
		for _, c := range effects {
			switch {
			case (c.Effect == EffectMais || c.Effect == EffectSobe) && ally != nil && best.Weight < 50:
				best.consider(c, ally, 50, "para ajudar seu aliado")
			case (c.Effect == EffectMais || c.Effect == EffectSobe) && best.Weight < 40:
				best.consider(c, p, 40, "para se fortalecer")
			case (c.Effect == EffectMenos || c.Effect == EffectDesce || c.Effect == EffectPula) && lead != nil && best.Weight < 60:
				if c.Effect != EffectPula || hasFreePath {
					best.consider(c, lead, 60, "para atacar o oponente líder")
				}
			case c.Effect == EffectReversus:
				if ally != nil && debuffed(ally) && best.consider(c, ally, 70, "para defender seu aliado") {
					best.Category = reversedSlot(ally, EffectMenos)
				} else if lead != nil && buffed(lead) && best.consider(c, lead, 65, "para anular a vantagem do oponente") {
					best.Category = reversedSlot(lead, EffectMais)
				}
			}
		}

	case p.AIType == AIVersatrix && gs.Battle == BattleNecroversoFinal:
		p1 := gs.Players[HumanID]
		lead := leader(m.activeOf([]string{"player-2", "player-3"}))
		for _, c := range effects {
			if (c.Effect == EffectMais || c.Effect == EffectSobe) && p1 != nil && !p1.Eliminated && p1.Effects.Score != EffectMais {
				best.consider(c, p1, 50, "para ajudar seu aliado")
			}
			if (c.Effect == EffectMenos || c.Effect == EffectDesce) && lead != nil && lead.Effects.Score != EffectMenos {
				best.consider(c, lead, 40, "para atacar o inimigo")
			}
		}

	case p.AIType == AIReversum:
		p1 := gs.Players[HumanID]
		if p1 != nil && !gs.ReversumAbilityUsed && p1.Position >= 3 && p1.Position < m.Rules.WinningPosition &&
			(debuffed(p) || buffed(p1)) {
			reason := "para sabotar a vantagem do jogador"
			if debuffed(p) {
				reason = "para reverter um efeito negativo sobre si mesmo"
			}
			return Move{Effect: EffectReversusTotal, Target: p, Weight: 100, Reason: reason, Reversum: true}
		}
		lead := leader(gs.Opponents(p.ID))
		for _, c := range effects {
			switch {
			case (c.Effect == EffectMenos || c.Effect == EffectDesce) && lead != nil:
				best.consider(c, lead, 70, "para esmagar o oponente")
			case c.Effect == EffectMais || c.Effect == EffectSobe:
				best.consider(c, p, 50, "para se fortalecer")
			case c.Effect == EffectReversus && lead != nil && buffed(lead):
				if best.consider(c, lead, 80, "para anular a vantagem do oponente") {
					best.Category = reversedSlot(lead, EffectMais)
				}
			}
		}

	case p.AIType == AINecroversoFinal:
		partner := (*Player)(nil)
		for _, id := range gs.Team(p.ID) {
			if id != p.ID {
				partner = gs.Players[id]
			}
		}
		lead := leader(m.activeOf([]string{HumanID, "player-4"}))
		for _, c := range effects {
			switch {
			case (c.Effect == EffectMenos || c.Effect == EffectDesce) && lead != nil && best.Weight < 70:
				best.consider(c, lead, 70, "para destruir o inimigo")
			case (c.Effect == EffectMais || c.Effect == EffectSobe) && partner != nil && best.Weight < 50:
				help := partner
				if p.LiveScore < partner.LiveScore {
					help = p
				}
				best.consider(c, help, 50, "para fortalecer a escuridão")
			}
		}

	case p.AIType == AIInversus:
		lead := leader(gs.Opponents(p.ID))
		for _, c := range effects {
			switch {
			case (c.Effect == EffectMenos || c.Effect == EffectDesce) && lead != nil && best.Weight < 50:
				best.consider(c, lead, 50, "para atacar")
			case (c.Effect == EffectMais || c.Effect == EffectSobe) && best.Weight < 40:
				best.consider(c, p, 40, "para se fortalecer")
			}
		}

	default:
		lead := leader(gs.Opponents(p.ID))
		for _, c := range effects {
			switch {
			case c.Effect == EffectMais || c.Effect == EffectSobe:
				if current(p, c.Effect) != c.Effect {
					best.consider(c, p, 25, "para se ajudar")
				}
			case (c.Effect == EffectMenos || c.Effect == EffectDesce) && lead != nil:
				if !lead.slotLocked(c.Effect.Category()) && current(lead, c.Effect) != c.Effect {
					best.consider(c, lead, 30, "para atacar o líder")
				}
			case c.Effect == EffectReversus:
				if debuffed(p) && best.consider(c, p, 40, "para se defender") {
					best.Category = reversedSlot(p, EffectMenos)
				} else if lead != nil && buffed(lead) && best.consider(c, lead, 35, "para atacar o líder") {
					best.Category = reversedSlot(lead, EffectMais)
				}
			case c.Effect == EffectPula && lead != nil && hasFreePath:
				best.consider(c, lead, 32, "para reposicionar o líder")
			}
		}
	}
	return best
}

// current is the effect p holds in the slot e belongs to.
func current(p *Player, e EffectKind) EffectKind {
	if e.Category() == CategoryScore {
		return p.Effects.Score
	}
	return p.Effects.Movement
}

// executeMove commits a chosen move.
func (m *Match) executeMove(p *Player, mv Move) {
	gs := m.State
	m.pause(m.thinkDelay)
	if mv.Reversum {
		gs.ReversumAbilityUsed = true
	}
	if mv.Card == nil {
		m.playAbility(p, mv.Effect, mv.Target.ID, PlayOptions{Category: mv.Category})
		return
	}
	if mv.Card.Effect == EffectPula {
		free := gs.FreePaths()
		if len(free) == 0 {
			return
		}
		mv.Target.TargetPathForPula = free[0].ID
	}
	if err := m.PlayCard(p, mv.Card, mv.Target.ID, PlayOptions{Category: mv.Category}); err != nil {
		m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), p.ID, err))
	}
}
