package game

import "github.com/Xael/reversusfinal/internal/log"

// tryToSpeak lets an opponent say one of its lines for its current
// standing. Lines cycle: each is said once before any repeats.
func (m *Match) tryToSpeak(p *Player) {
	gs := m.State
	sets, ok := m.Rules.Dialogue[p.AIType.String()]
	if !ok || (len(sets.Winning) == 0 && len(sets.Losing) == 0) {
		return
	}
	opps := gs.Opponents(p.ID)
	if len(opps) == 0 {
		return
	}
	sum := 0
	for _, o := range opps {
		sum += o.Position
	}
	lines := sets.Losing
	if float64(p.Position) > float64(sum)/float64(len(opps)) {
		lines = sets.Winning
	}
	if len(lines) == 0 {
		return
	}

	key := func(line string) string { return p.AIType.String() + "-" + line }
	say := ""
	for _, line := range lines {
		if !gs.SpokenLines.Has(key(line)) {
			say = line
			break
		}
	}
	if say == "" {
		for _, line := range lines {
			delete(gs.SpokenLines, key(line))
		}
		say = lines[0]
	}
	gs.SpokenLines[key(say)] = struct{}{}
	m.log(log.NewDialogueEvent(gs.Round, p.ID, p.Name, say))
}
