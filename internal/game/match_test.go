package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestNewMatchRejectsBadSeating: duo needs exactly four seats.
func TestNewMatchRejectsBadSeating(t *testing.T) {
	if _, err := NewMatch(MatchConfig{Mode: ModeDuo, Players: 3}); err == nil {
		t.Error("Expected an error for a three-seat duo")
	}
	if _, err := NewMatch(MatchConfig{Mode: ModeSolo, Players: 5}); err == nil {
		t.Error("Expected an error for five seats")
	}
}

// TestQuickMatchSeating: quick matches seat generic players on their own
// paths with the human first.
func TestQuickMatchSeating(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 3})
	gs := m.State
	if len(gs.TurnOrder) != 3 || gs.TurnOrder[0] != HumanID {
		t.Fatalf("unexpected turn order %v", gs.TurnOrder)
	}
	if !gs.Players[HumanID].IsHuman || gs.Players["player-2"].IsHuman {
		t.Error("only player-1 should be human")
	}
	for i, id := range gs.TurnOrder {
		if gs.Players[id].PathID != i || gs.Paths[i].PlayerID != id {
			t.Errorf("%s should own path %d", id, i)
		}
	}
	if gs.Story {
		t.Error("a quick match is not a story battle")
	}
	if got := gs.CountCards(); got != m.Rules.ValueDeckSize()+m.Rules.EffectDeckSize() {
		t.Errorf("Expected full decks before the deal, got %d cards", got)
	}
}

// TestBattlePresets: story battles take their seats, hearts and teams from
// the rules.
func TestBattlePresets(t *testing.T) {
	king, _ := newTestMatch(t, MatchConfig{Battle: BattleNecroversoKing})
	if p1 := king.State.Players[HumanID]; p1.Hearts != 6 || p1.MaxHearts != 6 {
		t.Errorf("king battle: expected 6 hearts, got %d/%d", p1.Hearts, p1.MaxHearts)
	}
	if !king.State.KingBattle || !king.State.FinalBoss {
		t.Error("king battle flags not set")
	}

	final, _ := newTestMatch(t, MatchConfig{Battle: BattleNecroversoFinal})
	gs := final.State
	if !gs.SameTeam([]string{"player-1", "player-4"}) || gs.SameTeam([]string{"player-1", "player-2"}) {
		t.Errorf("final battle teams wrong: A=%v B=%v", gs.TeamA, gs.TeamB)
	}
	if gs.TeamAHearts != 10 || gs.TeamBHearts != 10 {
		t.Errorf("Expected 10 team hearts each, got %d/%d", gs.TeamAHearts, gs.TeamBHearts)
	}

	inv, _ := newTestMatch(t, MatchConfig{Mode: ModeInversus})
	if inv.State.Battle != BattleInversus || inv.State.Story {
		t.Errorf("inversus should map to its battle outside story, got %s story=%v", inv.State.Battle, inv.State.Story)
	}
	for _, p := range inv.State.Players {
		if p.PathID != -1 {
			t.Errorf("%s should not sit on a path in inversus", p.ID)
		}
	}
}

// TestQuickDuelOpponent: a chosen personality replaces player-2.
func TestQuickDuelOpponent(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 2, Opponent: AIContravox, OpponentName: "Contravox"})
	p2 := m.State.Players["player-2"]
	if p2.AIType != AIContravox || p2.Name != "Contravox" {
		t.Errorf("Expected Contravox in seat 2, got %s / %s", p2.AIType, p2.Name)
	}
}

// TestRunStopsOnCancel: a cancelled context ends Run with its error.
func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := NewMatch(MatchConfig{Mode: ModeSolo, Players: 2, Seed: 3})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if _, err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestTimeLimitEndsMatch: the clock runs out before the first turn.
func TestTimeLimitEndsMatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	m, err := NewMatch(MatchConfig{Mode: ModeSolo, Players: 2, Seed: 3, TimeLimit: time.Second, Clock: clock})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	out, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Won || out.Reason != "time" {
		t.Errorf("Expected a loss on time, got %+v", out)
	}
}

// TestGateSubmit: the gate parks a prompt until a valid answer arrives.
func TestGateSubmit(t *testing.T) {
	g := NewGate()
	if err := g.Submit(0); !errors.Is(err, ErrNoPendingPrompt) {
		t.Fatalf("Expected ErrNoPendingPrompt, got %v", err)
	}

	done := make(chan int, 1)
	go func() {
		idx, _ := g.Choose(context.Background(), &GameState{}, Prompt{Kind: PromptTarget, Options: []Option{{Label: "a"}, {Label: "b"}}})
		done <- idx
	}()
	p := <-g.Prompts()
	if len(p.Options) != 2 {
		t.Fatalf("unexpected prompt %+v", p)
	}
	if err := g.Submit(5); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Expected ErrInvalidChoice, got %v", err)
	}
	if err := g.Submit(1); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if idx := <-done; idx != 1 {
		t.Errorf("Expected 1, got %d", idx)
	}
	if g.Pending() != nil {
		t.Error("answered prompt should be cleared")
	}
}

// TestGateCancel: a cancelled wait leaves nothing pending.
func TestGateCancel(t *testing.T) {
	g := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := g.Choose(ctx, &GameState{}, Prompt{Options: []Option{{Label: "ok"}}})
		errc <- err
	}()
	<-g.Prompts()
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if g.Pending() != nil {
		t.Error("cancelled prompt should be cleared")
	}
}

// TestGateTimeoutDropsLateAnswer: an answer that lands as the wait times
// out is not handed to the next prompt.
func TestGateTimeoutDropsLateAnswer(t *testing.T) {
	g := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g.answers <- 0 // submitted just as the timeout fired

	g.Choose(ctx, &GameState{}, Prompt{Options: []Option{{Label: "a"}, {Label: "b"}}})
	if n := len(g.answers); n != 0 {
		t.Fatalf("Expected no buffered answer after the wait, got %d", n)
	}
	if g.Pending() != nil {
		t.Fatal("timed out prompt should be cleared")
	}
	<-g.Prompts()

	done := make(chan int, 1)
	go func() {
		idx, _ := g.Choose(context.Background(), &GameState{}, Prompt{Options: []Option{{Label: "a"}, {Label: "b"}}})
		done <- idx
	}()
	<-g.Prompts()
	if err := g.Submit(1); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if idx := <-done; idx != 1 {
		t.Errorf("Expected the fresh answer 1, got %d", idx)
	}
}

// TestStarPowerCooldownTicksOnHumanTurn: the cooldown only counts down when
// the turn comes back to player-1.
func TestStarPowerCooldownTicksOnHumanTurn(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{Mode: ModeSolo, Players: 4})
	gs := m.State
	p1 := gs.Players[HumanID]
	p1.StarPower = true
	p1.StarPowerCooldown = 3
	gs.Current = HumanID

	for range 3 {
		m.advance()
	}
	if gs.Current != "player-4" {
		t.Fatalf("Expected player-4 to hold the turn, got %s", gs.Current)
	}
	if p1.StarPowerCooldown != 3 {
		t.Errorf("cooldown ticked on other seats' turns: got %d", p1.StarPowerCooldown)
	}

	m.advance()
	if gs.Current != HumanID {
		t.Fatalf("Expected the turn back at player-1, got %s", gs.Current)
	}
	if p1.StarPowerCooldown != 2 {
		t.Errorf("Expected cooldown 2 on player-1's turn, got %d", p1.StarPowerCooldown)
	}
}
