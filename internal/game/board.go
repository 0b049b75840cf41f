package game

import (
	"math/rand/v2"

	"github.com/Xael/reversusfinal/internal/log"
)

// BoardOptions selects the mode-specific extras a board carries.
type BoardOptions struct {
	FinalBoss bool
	King      bool
	Xael      bool
	Narrador  bool
	Reversum  bool
	Versatrix bool
	// KingColors is the per-path palette for the king battle.
	KingColors []SpaceColor
}

// kingHearts is how many heart spaces the king board scatters.
const kingHearts = 4

// DefaultKingColors is the king battle palette, one colour per path.
var DefaultKingColors = []SpaceColor{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorBlack, ColorWhite}

// GeneratePaths builds the board for a match.
func GeneratePaths(rules *Rules, opts BoardOptions, rng *rand.Rand) []*Path {
	if opts.King {
		return generateKingPaths(rules, opts.KingColors, rng)
	}
	paths := make([]*Path, rules.NumPaths)
	for i := range paths {
		path := &Path{ID: i, Spaces: blankSpaces(rules.BoardSize)}
		paths[i] = path

		// The first and last spaces stay white.
		colorable := make([]int, 0, rules.BoardSize-2)
		for id := 2; id < rules.BoardSize; id++ {
			colorable = append(colorable, id)
		}
		rng.Shuffle(len(colorable), func(a, b int) { colorable[a], colorable[b] = colorable[b], colorable[a] })
		take := func() *Space {
			if len(colorable) == 0 {
				return nil
			}
			id := colorable[0]
			colorable = colorable[1:]
			return path.Spaces[id-1]
		}

		if opts.FinalBoss {
			holes := 1
			if rng.Float64() > 0.5 {
				holes = 2
			}
			for h := 0; h < holes; h++ {
				if s := take(); s != nil {
					s.Color = ColorBlack
				}
			}
		}

		switch {
		case opts.Xael:
			if s := take(); s != nil {
				s.Color = ColorStar
			}
		case opts.Narrador:
			for _, c := range []SpaceColor{ColorRed, ColorBlue, ColorYellow} {
				if s := take(); s != nil {
					s.Color = c
				}
			}
		default:
			count := rules.ColoredSpacesPerPath
			if opts.FinalBoss {
				count = 1
			}
			for n := 0; n < count; n++ {
				s := take()
				if s == nil {
					break
				}
				positive := rng.Float64() > 0.5
				if opts.Reversum {
					positive = false
				}
				if positive {
					s.Color = ColorBlue
					s.Effect = pickEffect(rules.FieldEffects.Positive, rules.FieldEffects.XaelPositive, opts.Xael, rng)
				} else {
					s.Color = ColorRed
					s.Effect = pickEffect(rules.FieldEffects.Negative, rules.FieldEffects.XaelNegative, opts.Xael, rng)
				}
			}
		}

		if opts.Versatrix || opts.FinalBoss {
			if s := take(); s != nil {
				s.Color = ColorYellow
			}
		}
	}
	return paths
}

func blankSpaces(n int) []*Space {
	spaces := make([]*Space, n)
	for i := range spaces {
		spaces[i] = &Space{ID: i + 1, Color: ColorWhite}
	}
	return spaces
}

// pickEffect draws a named effect, optionally widening the table with the
// star effects of the Xael challenge.
func pickEffect(table, extra []FieldEntry, withExtra bool, rng *rand.Rand) FieldEffect {
	pool := table
	if withExtra {
		pool = append(append([]FieldEntry(nil), table...), extra...)
	}
	if len(pool) == 0 {
		return FieldNone
	}
	return pool[rng.IntN(len(pool))].Name
}

func generateKingPaths(rules *Rules, colors []SpaceColor, rng *rand.Rand) []*Path {
	if len(colors) == 0 {
		colors = DefaultKingColors
	}
	paths := make([]*Path, rules.NumPaths)
	for i := range paths {
		color := colors[i%len(colors)]
		spaces := blankSpaces(rules.BoardSize)
		for _, s := range spaces {
			s.Color = color
		}
		paths[i] = &Path{ID: i, OriginalColor: color, Spaces: spaces}
	}

	var eligible []*Path
	for _, p := range paths {
		if p.OriginalColor != ColorBlack {
			eligible = append(eligible, p)
		}
	}
	placed := 0
	for attempts := 0; placed < kingHearts && len(eligible) > 0 && attempts < 100; attempts++ {
		p := eligible[rng.IntN(len(eligible))]
		idx := 1 + rng.IntN(rules.BoardSize-2)
		s := p.Spaces[idx]
		if s.Heart {
			continue
		}
		s.Heart = true
		s.Color = ColorWhite
		placed++
	}
	return paths
}

// rotateKingBoard shifts the palette one path over and repaints every space
// that does not hold a heart.
func (m *Match) rotateKingBoard() {
	gs := m.State
	if len(gs.KingPathColors) == 0 {
		return
	}
	rotated := append([]SpaceColor(nil), gs.KingPathColors[1:]...)
	gs.KingPathColors = append(rotated, gs.KingPathColors[0])
	for i, path := range gs.Paths {
		color := gs.KingPathColors[i%len(gs.KingPathColors)]
		for _, s := range path.Spaces {
			if !s.Heart {
				s.Color = color
			}
		}
	}
	m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), "", "As cores do tabuleiro giraram."))
}

// applyKingBoardEffects applies each player's path colour.
func (m *Match) applyKingBoardEffects() {
	gs := m.State
	for _, p := range gs.ActivePlayers() {
		path := gs.PathOf(p)
		if path == nil || len(path.Spaces) == 0 {
			continue
		}
		switch path.Spaces[0].Color {
		case ColorBlack:
			old := p.Hearts
			p.Hearts = max(0, p.Hearts-1)
			m.log(log.NewHeartChangeEvent(gs.Round, p.ID, p.Name, old, p.Hearts, "caminho negro"))
			if p.Hearts == 0 {
				m.eliminate(p, "caminho negro")
			}
		case ColorGreen:
			p.Obscured = true
			m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), p.ID, p.Name+" teve as cartas obscurecidas pelo caminho verde."))
		case ColorYellow:
			if p.AIType != AIVersatrix {
				from := p.Position
				p.Position = max(1, p.Position-1)
				m.log(log.NewMovementEvent(gs.Round, p.ID, p.Name, from, p.Position))
			}
		case ColorBlue:
			m.rollKingEffect(p, m.Rules.FieldEffects.Positive, true)
		case ColorRed:
			m.rollKingEffect(p, m.Rules.FieldEffects.Negative, false)
		}
	}
}

func (m *Match) rollKingEffect(p *Player, table []FieldEntry, positive bool) {
	if len(table) == 0 {
		return
	}
	name := table[m.rng.IntN(len(table))].Name
	m.log(log.NewFieldEffectEvent(m.State.Round, p.ID, p.Name, name.String(), positive))
	m.ExecuteFieldEffect(p, name, positive)
}
