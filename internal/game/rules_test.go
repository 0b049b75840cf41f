package game

import (
	"strings"
	"testing"
)

// TestDefaultRules: the embedded table loads with its presets.
func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	if r.ValueDeckSize() != 40 || r.EffectDeckSize() != 25 {
		t.Errorf("Expected decks of 40 and 25, got %d and %d", r.ValueDeckSize(), r.EffectDeckSize())
	}
	for _, id := range []Battle{BattleTutorial, BattleContravox, BattleVersatrix, BattleReversum,
		BattleNecroversoKing, BattleNecroversoFinal, BattleXaelChallenge, BattleNarrador, BattleInversus} {
		if _, ok := r.Battle(id); !ok {
			t.Errorf("missing battle preset %s", id)
		}
	}
	if r.Description(FieldCastigo) == "" {
		t.Error("Castigo should have a description")
	}
}

// TestParseRulesRejectsBadInput: broken YAML and invalid tables fail.
func TestParseRulesRejectsBadInput(t *testing.T) {
	if _, err := ParseRules([]byte("board_size: [")); err == nil || !strings.Contains(err.Error(), "parse rules YAML") {
		t.Errorf("Expected a parse error, got %v", err)
	}
	if _, err := ParseRules([]byte("board_size: 1\n")); err == nil || !strings.Contains(err.Error(), "invalid rules") {
		t.Errorf("Expected a validation error, got %v", err)
	}
}
