package game

import (
	"fmt"
	"math/rand/v2"
)

// Room is one entry of the PvP lobby listing.
type Room struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Players  int    `json:"players"`
	Mode     string `json:"mode"`
	Password string `json:"-"`
	Locked   bool   `json:"locked"`
}

// Unlock reports whether password opens the room.
func (r Room) Unlock(password string) bool {
	return r.Password == "" || r.Password == password
}

// PvPRooms lists the lobby rooms with simulated occupancy.
func PvPRooms(rng *rand.Rand) []Room {
	rooms := make([]Room, 0, 12)
	for i := 1; i <= 12; i++ {
		r := Room{
			ID:      i,
			Name:    fmt.Sprintf("Sala %d", i),
			Players: rng.IntN(5),
			Mode:    "Solo (1v3)",
		}
		if i%3 == 0 {
			r.Mode = "Duo (2v2)"
		}
		if i == 12 {
			r.Password = "Final"
			r.Locked = true
		}
		rooms = append(rooms, r)
	}
	return rooms
}
