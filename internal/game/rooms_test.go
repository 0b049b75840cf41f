package game

import (
	"math/rand/v2"
	"testing"
)

// TestPvPRooms: twelve rooms, every third is duo, the last needs a password.
func TestPvPRooms(t *testing.T) {
	rooms := PvPRooms(rand.New(rand.NewPCG(1, 1)))
	if len(rooms) != 12 {
		t.Fatalf("Expected 12 rooms, got %d", len(rooms))
	}
	for _, r := range rooms {
		if r.Players < 0 || r.Players > 4 {
			t.Errorf("%s: occupancy %d out of range", r.Name, r.Players)
		}
		if want := r.ID%3 == 0; (r.Mode == "Duo (2v2)") != want {
			t.Errorf("%s: unexpected mode %s", r.Name, r.Mode)
		}
	}
	last := rooms[11]
	if !last.Locked || last.Unlock("errada") || !last.Unlock("Final") {
		t.Errorf("room 12 password check failed: %+v", last)
	}
	if !rooms[0].Unlock("") {
		t.Error("room 1 should be open")
	}
}
