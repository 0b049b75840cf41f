package game

import (
	"math/rand/v2"
	"testing"
)

// TestStandardBoard: six paths of nine spaces, white ends, three named
// coloured spaces per path.
func TestStandardBoard(t *testing.T) {
	rules := DefaultRules()
	paths := GeneratePaths(rules, BoardOptions{}, rand.New(rand.NewPCG(1, 2)))
	if len(paths) != rules.NumPaths {
		t.Fatalf("Expected %d paths, got %d", rules.NumPaths, len(paths))
	}
	for _, p := range paths {
		if len(p.Spaces) != rules.BoardSize {
			t.Fatalf("path %d: expected %d spaces, got %d", p.ID, rules.BoardSize, len(p.Spaces))
		}
		first, last := p.Spaces[0], p.Spaces[len(p.Spaces)-1]
		if first.Color != ColorWhite || last.Color != ColorWhite {
			t.Errorf("path %d: end spaces must be white", p.ID)
		}
		colored := 0
		for _, s := range p.Spaces {
			switch s.Color {
			case ColorBlue, ColorRed:
				colored++
				if s.Effect == FieldNone {
					t.Errorf("path %d space %d: coloured space without an effect", p.ID, s.ID)
				}
			case ColorWhite:
			default:
				t.Errorf("path %d space %d: unexpected colour %s", p.ID, s.ID, s.Color)
			}
		}
		if colored != rules.ColoredSpacesPerPath {
			t.Errorf("path %d: expected %d coloured spaces, got %d", p.ID, rules.ColoredSpacesPerPath, colored)
		}
	}
}

// TestReversumBoardIsAllRed: the Reversum board has no positive spaces.
func TestReversumBoardIsAllRed(t *testing.T) {
	paths := GeneratePaths(DefaultRules(), BoardOptions{Reversum: true}, rand.New(rand.NewPCG(3, 4)))
	for _, p := range paths {
		for _, s := range p.Spaces {
			if s.Color == ColorBlue {
				t.Fatalf("path %d space %d is blue", p.ID, s.ID)
			}
		}
	}
}

// TestFinalBossBoard: black holes plus one named space and one yellow.
func TestFinalBossBoard(t *testing.T) {
	paths := GeneratePaths(DefaultRules(), BoardOptions{FinalBoss: true}, rand.New(rand.NewPCG(5, 6)))
	for _, p := range paths {
		counts := make(map[SpaceColor]int)
		for _, s := range p.Spaces {
			counts[s.Color]++
		}
		if counts[ColorBlack] < 1 || counts[ColorBlack] > 2 {
			t.Errorf("path %d: expected 1-2 black holes, got %d", p.ID, counts[ColorBlack])
		}
		if counts[ColorYellow] != 1 {
			t.Errorf("path %d: expected 1 yellow space, got %d", p.ID, counts[ColorYellow])
		}
		if counts[ColorBlue]+counts[ColorRed] != 1 {
			t.Errorf("path %d: expected 1 named space, got %d", p.ID, counts[ColorBlue]+counts[ColorRed])
		}
	}
}

// TestXaelBoardHasStars: each Xael path carries one star space.
func TestXaelBoardHasStars(t *testing.T) {
	paths := GeneratePaths(DefaultRules(), BoardOptions{Xael: true}, rand.New(rand.NewPCG(7, 8)))
	for _, p := range paths {
		stars := 0
		for _, s := range p.Spaces {
			if s.Color == ColorStar {
				stars++
			}
		}
		if stars != 1 {
			t.Errorf("path %d: expected 1 star, got %d", p.ID, stars)
		}
	}
}

// TestKingBoardRotation: hearts are placed off the black path and the
// palette shifts one path per round.
func TestKingBoardRotation(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Battle: BattleNecroversoKing})
	gs := m.State

	hearts := 0
	for _, p := range gs.Paths {
		for _, s := range p.Spaces {
			if s.Heart {
				hearts++
				if p.OriginalColor == ColorBlack {
					t.Errorf("heart placed on the black path %d", p.ID)
				}
			}
		}
	}
	if hearts < 1 || hearts > kingHearts {
		t.Errorf("Expected 1-%d hearts, got %d", kingHearts, hearts)
	}

	before := append([]SpaceColor(nil), gs.KingPathColors...)
	m.rotateKingBoard()
	for i := range before {
		if gs.KingPathColors[i] != before[(i+1)%len(before)] {
			t.Fatalf("palette not rotated: %v -> %v", before, gs.KingPathColors)
		}
	}
	if got := gs.Paths[0].Spaces[0].Color; got != gs.KingPathColors[0] {
		t.Errorf("path 0 should be repainted %s, got %s", gs.KingPathColors[0], got)
	}
}

// TestKingHeartPickup: a heart space restores one heart up to the maximum.
func TestKingHeartPickup(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Battle: BattleNecroversoKing})
	gs := m.State
	p1 := gs.Players[HumanID]
	p1.Hearts = 3
	p1.Position = 5
	space := gs.PathOf(p1).Spaces[4]
	space.Heart, space.Used = true, false

	m.landingAbilities(p1)
	if p1.Hearts != 4 || !space.Used {
		t.Errorf("Expected 4 hearts and a used space, got %d / %v", p1.Hearts, space.Used)
	}
	m.landingAbilities(p1)
	if p1.Hearts != 4 {
		t.Errorf("a used heart space should not heal again, got %d", p1.Hearts)
	}
}
