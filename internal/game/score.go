package game

import (
	"fmt"

	"github.com/Xael/reversusfinal/internal/log"
)

// restoValue is what a player's resto is worth under the active field
// effects.
func (gs *GameState) restoValue(p *Player) int {
	if p.Resto == nil {
		return 0
	}
	switch {
	case gs.HasFieldEffect(FieldRestoMaior, p.ID):
		return 10
	case gs.HasFieldEffect(FieldRestoMenor, p.ID):
		return 2
	}
	return p.Resto.Value
}

// score sums a player's played value cards and applies the score effect.
// final adds the resolution-only modifiers.
func (gs *GameState) score(p *Player, final bool) int {
	total := 0
	for _, c := range p.Played.Value {
		total += c.Value
	}
	resto := gs.restoValue(p)
	switch p.Effects.Score {
	case EffectMais:
		total += resto
	case EffectMenos:
		total -= resto
		if final && gs.HasFieldEffect(FieldSuperExposto, p.ID) {
			total -= resto
		}
	case EffectNecroX:
		if final {
			total += 10
		}
	case EffectNecroXInvertido:
		if final {
			total -= 10
		}
	}
	return total
}

// ComputeLiveScores refreshes every active player's running score and
// marks the leader and the trailer.
func (m *Match) ComputeLiveScores() {
	gs := m.State
	active := gs.ActivePlayers()
	if len(active) == 0 {
		return
	}
	hi, lo := 0, 0
	for i, p := range active {
		p.LiveScore = gs.score(p, false)
		if i == 0 || p.LiveScore > hi {
			hi = p.LiveScore
		}
		if i == 0 || p.LiveScore < lo {
			lo = p.LiveScore
		}
	}
	for _, p := range active {
		switch {
		case hi == lo:
			p.Status = StatusNeutral
		case p.LiveScore == hi:
			p.Status = StatusWinning
		case p.LiveScore == lo:
			p.Status = StatusLosing
		default:
			p.Status = StatusNeutral
		}
	}
}

// ResolveRound scores the round, applies hearts and movement, then either
// ends the game or opens the next round.
func (m *Match) ResolveRound() {
	gs := m.State
	for _, p := range gs.Players {
		p.Obscured = false
	}

	active := gs.ActivePlayers()
	scores := make(map[string]int, len(active))
	best := 0
	for i, p := range active {
		s := gs.score(p, true)
		scores[p.ID] = s
		m.log(log.NewScoreEvent(gs.Round, p.ID, p.Name, s))
		if i == 0 || s > best {
			best = s
		}
	}

	var winners []string
	for _, p := range active {
		if scores[p.ID] == best {
			winners = append(winners, p.ID)
		}
	}
	if len(winners) > 1 {
		if gs.Mode != ModeDuo || !gs.SameTeam(winners) {
			winners = m.breakXaelTie(winners)
		}
	}

	names := make([]string, 0, len(winners))
	for _, id := range winners {
		names = append(names, gs.Players[id].Name)
	}
	m.log(log.NewRoundResultEvent(gs.Round, names))

	m.roundHearts(active, scores, winners)
	if gs.Over {
		return
	}

	active = gs.ActivePlayers()
	m.moveAll(active, winners)
	for _, p := range active {
		m.landingAbilities(p)
	}

	if m.CheckGameEnd() {
		return
	}
	gs.Winners = winners
	for _, id := range gs.TurnOrder {
		if contains(winners, id) && !gs.Players[id].Eliminated {
			gs.Current = id
			break
		}
	}
	m.startNewRound(false)
}

// breakXaelTie settles a top tie between the human and Xael by stars. Any
// other tie has no winner.
func (m *Match) breakXaelTie(winners []string) []string {
	gs := m.State
	if !gs.XaelChallenge || len(winners) != 2 || !contains(winners, HumanID) {
		return nil
	}
	var xael *Player
	for _, id := range winners {
		if p := gs.Players[id]; p.AIType == AIXael {
			xael = p
		}
	}
	if xael == nil {
		return nil
	}
	if gs.Players[HumanID].Stars > xael.Stars {
		return []string{HumanID}
	}
	return []string{xael.ID}
}

// roundHearts applies the heart losses of the heart-based battles.
func (m *Match) roundHearts(active []*Player, scores map[string]int, winners []string) {
	gs := m.State
	switch {
	case gs.Inversus:
		p1 := gs.Players[HumanID]
		if p1 == nil || p1.Eliminated || contains(winners, HumanID) {
			return
		}
		m.loseHeart(p1, "perdeu a rodada")
		m.CheckGameEnd()

	case gs.KingBattle:
		if len(active) <= 1 {
			return
		}
		low := scores[active[0].ID]
		for _, p := range active {
			low = min(low, scores[p.ID])
		}
		for _, p := range active {
			if scores[p.ID] == low {
				m.loseHeart(p, "menor pontuação")
			}
		}
		m.CheckGameEnd()

	case gs.Battle == BattleNecroversoFinal && len(winners) > 0:
		if contains(gs.TeamA, winners[0]) {
			old := gs.TeamBHearts
			gs.TeamBHearts = max(0, gs.TeamBHearts-1)
			m.log(log.NewHeartChangeEvent(gs.Round, "", "Equipe Necroverso", old, gs.TeamBHearts, "perdeu a rodada"))
		} else {
			old := gs.TeamAHearts
			gs.TeamAHearts = max(0, gs.TeamAHearts-1)
			m.log(log.NewHeartChangeEvent(gs.Round, "", "Sua equipe", old, gs.TeamAHearts, "perdeu a rodada"))
		}
		m.Announcer.PlaySound("coracao")
		m.CheckGameEnd()
	}
}

func (m *Match) loseHeart(p *Player, reason string) {
	old := p.Hearts
	p.Hearts = max(0, p.Hearts-1)
	m.Announcer.PlaySound("coracao")
	m.log(log.NewHeartChangeEvent(m.State.Round, p.ID, p.Name, old, p.Hearts, reason))
	if p.Hearts == 0 {
		m.eliminate(p, "sem corações")
	}
}

// moveAll applies path changes and movement for the round.
func (m *Match) moveAll(active []*Player, winners []string) {
	gs := m.State
	for _, p := range active {
		if p.Effects.Movement == EffectPula && p.TargetPathForPula >= 0 {
			p.PathID = p.TargetPathForPula
			m.log(log.NewPathChangeEvent(gs.Round, p.ID, p.Name, p.PathID))
		}
		p.TargetPathForPula = -1

		delta := 0
		switch p.Effects.Movement {
		case EffectSobe:
			delta++
		case EffectDesce:
			delta--
			if gs.HasFieldEffect(FieldSuperExposto, p.ID) {
				delta--
			}
		}

		if contains(winners, p.ID) {
			switch {
			case gs.HasFieldEffect(FieldParada, p.ID):
			case gs.HasFieldEffect(FieldDesafio, p.ID) && p.Effects.Score != EffectMais && p.Effects.Movement != EffectSobe:
				delta += 3
			default:
				delta++
			}
		} else if len(winners) > 0 {
			if gs.HasFieldEffect(FieldCastigo, p.ID) {
				delta -= 3
			}
			if gs.HasFieldEffect(FieldImpulso, p.ID) {
				delta++
			}
		}

		from := p.Position
		p.Position = min(m.Rules.WinningPosition, max(1, p.Position+delta))
		if p.Position != from {
			m.log(log.NewMovementEvent(gs.Round, p.ID, p.Name, from, p.Position))
		}
	}
}

// CheckGameEnd finishes the match if an end condition holds and reports
// whether the match is over.
func (m *Match) CheckGameEnd() bool {
	gs := m.State
	if gs.Over {
		return true
	}

	if gs.Battle == BattleNecroversoFinal {
		switch {
		case gs.TeamBHearts <= 0:
			gs.Winners = append([]string(nil), gs.TeamA...)
			m.finish(true, "hearts")
			return true
		case gs.TeamAHearts <= 0:
			gs.Winners = append([]string(nil), gs.TeamB...)
			m.finish(false, "hearts")
			return true
		}
	}

	if gs.KingBattle || gs.Inversus {
		active := gs.ActivePlayers()
		if len(active) <= 1 {
			gs.Winners = ids(active)
			m.finish(len(active) == 1 && active[0].ID == HumanID, "eliminated")
			return true
		}
	}

	var reached []string
	for _, p := range gs.ActivePlayers() {
		if p.Position >= m.Rules.WinningPosition {
			reached = append(reached, p.ID)
		}
	}
	if len(reached) == 0 {
		return false
	}

	won := contains(reached, HumanID)
	switch {
	case gs.XaelChallenge:
		var xael *Player
		for _, id := range reached {
			if p := gs.Players[id]; p.AIType == AIXael {
				xael = p
			}
		}
		if won && xael != nil {
			won = gs.Players[HumanID].Stars > xael.Stars
			if won {
				reached = []string{HumanID}
			} else {
				reached = []string{xael.ID}
			}
		}
	case gs.Story && gs.Mode == ModeDuo:
		team := gs.Team(HumanID)
		won = false
		for _, id := range reached {
			if contains(team, id) {
				won = true
			}
		}
	}
	gs.Winners = reached
	m.finish(won, fmt.Sprintf("chegou à casa %d", m.Rules.WinningPosition))
	return true
}
