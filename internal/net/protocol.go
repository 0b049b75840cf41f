package net

// Message types for the JSON protocol over TCP. One JSON document per line.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose"
	Prompt *PromptView `json:"prompt,omitempty"`

	// For "game_over"
	Won     bool     `json:"won,omitempty"`
	Winners []string `json:"winners,omitempty"`
	Result  string   `json:"result,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Player  string `json:"player,omitempty"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// PromptView is an open sub-decision of a play.
type PromptView struct {
	Kind    string       `json:"kind"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

// OptionView is one numbered answer to a prompt.
type OptionView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// CardView describes a card in a hand.
type CardView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Blocked  bool   `json:"blocked,omitempty"`
	Cooldown int    `json:"cooldown,omitempty"`
}

// StateView is the match as one seat sees it.
type StateView struct {
	You            string            `json:"you"`
	Round          int               `json:"round"`
	Phase          string            `json:"phase"`
	Current        string            `json:"current"`
	IsYourTurn     bool              `json:"is_your_turn"`
	Mode           string            `json:"mode"`
	Battle         string            `json:"battle,omitempty"`
	ReversusTotal  bool              `json:"reversus_total,omitempty"`
	FieldEffects   []FieldEffectView `json:"field_effects,omitempty"`
	TeamAHearts    int               `json:"team_a_hearts,omitempty"`
	TeamBHearts    int               `json:"team_b_hearts,omitempty"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	Players        []PlayerView      `json:"players"`
	Paths          []PathView        `json:"paths,omitempty"`
}

// PlayerView shows one seat. Hand is only filled when the viewer may see it.
type PlayerView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Position       int        `json:"position"`
	PathID         int        `json:"path_id"`
	Hearts         int        `json:"hearts,omitempty"`
	MaxHearts      int        `json:"max_hearts,omitempty"`
	Stars          int        `json:"stars,omitempty"`
	LiveScore      int        `json:"live_score"`
	Status         string     `json:"status"`
	ScoreEffect    string     `json:"score_effect,omitempty"`
	MovementEffect string     `json:"movement_effect,omitempty"`
	Resto          int        `json:"resto,omitempty"`
	HandCount      int        `json:"hand_count"`
	Hand           []CardView `json:"hand,omitempty"`
	PlayedValues   []int      `json:"played_values,omitempty"`
	PlayedEffects  []string   `json:"played_effects,omitempty"`
	Eliminated     bool       `json:"eliminated,omitempty"`
	Obscured       bool       `json:"obscured,omitempty"`
}

// FieldEffectView is an active round-scoped field effect.
type FieldEffectView struct {
	Name     string `json:"name"`
	Positive bool   `json:"positive"`
	Player   string `json:"player"`
}

// PathView is one lane of the board.
type PathView struct {
	ID     int         `json:"id"`
	Owner  string      `json:"owner,omitempty"`
	Spaces []SpaceView `json:"spaces"`
}

// SpaceView is one board space.
type SpaceView struct {
	ID     int    `json:"id"`
	Color  string `json:"color"`
	Effect string `json:"effect,omitempty"`
	Used   bool   `json:"used,omitempty"`
	Heart  bool   `json:"heart,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action" and "choice"
	Index int `json:"index"`

	// For "join" (initial handshake)
	Mode    string `json:"mode,omitempty"`
	Players int    `json:"players,omitempty"`
	Battle  string `json:"battle,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`
	Resume  bool   `json:"resume,omitempty"`
	Profile string `json:"profile,omitempty"`
}
