package game

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Played is a player's play zone for the current round.
type Played struct {
	Value  []*Card `json:"value"`
	Effect []*Card `json:"effect"`
}

// Effects holds the resolved effect per category. At most one of each.
type Effects struct {
	Score    EffectKind `json:"score,omitempty"`
	Movement EffectKind `json:"movement,omitempty"`
}

// Player represents one seat's entire state.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsHuman bool   `json:"isHuman"`
	AIType  AIType `json:"aiType"`

	PathID            int `json:"pathId"` // -1 when off the board
	Position          int `json:"position"`
	TargetPathForPula int `json:"targetPathForPula"`

	Hand      []*Card `json:"hand"`
	Played    Played  `json:"playedCards"`
	Resto     *Card   `json:"resto,omitempty"`
	NextResto *Card   `json:"nextResto,omitempty"`

	Effects                  Effects `json:"effects"`
	PlayedValueCardThisTurn  bool    `json:"playedValueCardThisTurn"`
	PlayedEffectCardThisTurn bool    `json:"playedEffectCardThisTurn"`
	LiveScore                int     `json:"liveScore"`
	Status                   Status  `json:"status"`
	Eliminated               bool    `json:"isEliminated"`

	Hearts            int   `json:"hearts,omitempty"`
	MaxHearts         int   `json:"maxHearts,omitempty"`
	Stars             int   `json:"stars,omitempty"`
	Obscured          bool  `json:"cardsObscured,omitempty"`
	ReplacedByCurse   *Card `json:"replacedByCurse,omitempty"`
	StarPower         bool  `json:"hasStarPower,omitempty"`
	StarPowerCooldown int   `json:"starPowerCooldown,omitempty"`
}

// ValueCards returns the value cards in hand, in hand order.
func (p *Player) ValueCards() []*Card {
	var out []*Card
	for _, c := range p.Hand {
		if c.Kind == CardValue {
			out = append(out, c)
		}
	}
	return out
}

// EffectCards returns the effect cards in hand, in hand order.
func (p *Player) EffectCards() []*Card {
	var out []*Card
	for _, c := range p.Hand {
		if c.Kind == CardEffect {
			out = append(out, c)
		}
	}
	return out
}

// effectHandCount counts effect cards toward the hand limit. The Versatrix
// card sits outside the limit; a curse card does not.
func (p *Player) effectHandCount() int {
	n := 0
	for _, c := range p.Hand {
		if c.Kind == CardEffect && c.Effect != EffectVersatrix {
			n++
		}
	}
	return n
}

// MustPlayValue reports whether the player still owes a value card this turn.
func (p *Player) MustPlayValue() bool {
	return len(p.ValueCards()) > 1 && !p.PlayedValueCardThisTurn
}

// FindCard returns the hand card with the given id.
func (p *Player) FindCard(id int) *Card {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveCard takes a card out of the hand by id. Returns nil if absent.
func (p *Player) RemoveCard(id int) *Card {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// lowestValue and highestValue return the extreme value card in hand; ties
// resolve to the earliest card.
func (p *Player) lowestValue() *Card {
	var best *Card
	for _, c := range p.ValueCards() {
		if best == nil || c.Value < best.Value {
			best = c
		}
	}
	return best
}

func (p *Player) highestValue() *Card {
	var best *Card
	for _, c := range p.ValueCards() {
		if best == nil || c.Value > best.Value {
			best = c
		}
	}
	return best
}

// replaceInHand swaps the card with id old for card in place.
func (p *Player) replaceInHand(old int, card *Card) bool {
	for i, c := range p.Hand {
		if c.ID == old {
			p.Hand[i] = card
			return true
		}
	}
	return false
}

// slotCard returns the play-zone effect card occupying a category slot.
func (p *Player) slotCard(cat Category) (int, *Card) {
	if cat == CategoryNone {
		return -1, nil
	}
	for i, c := range p.Played.Effect {
		if c.SlotCategory() == cat {
			return i, c
		}
	}
	return -1, nil
}

// slotLocked reports whether an individual Reversus Total lock holds the slot.
func (p *Player) slotLocked(cat Category) bool {
	_, c := p.slotCard(cat)
	return c != nil && c.Locked
}

// Piles holds one collection per card kind.
type Piles struct {
	Value  []*Card `json:"value"`
	Effect []*Card `json:"effect"`
}

func (p *Piles) of(kind CardKind) *[]*Card {
	if kind == CardEffect {
		return &p.Effect
	}
	return &p.Value
}

// Space is one square of a path. Positions are 1-based; space i sits at
// position i.
type Space struct {
	ID     int         `json:"id"`
	Color  SpaceColor  `json:"color"`
	Effect FieldEffect `json:"effectName,omitempty"`
	Used   bool        `json:"isUsed"`
	Heart  bool        `json:"hasHeart,omitempty"`
}

// Path is one lane of the board.
type Path struct {
	ID            int        `json:"id"`
	PlayerID      string     `json:"playerId,omitempty"`
	OriginalColor SpaceColor `json:"originalColor,omitempty"`
	Spaces        []*Space   `json:"spaces"`
}

// ActiveFieldEffect is a round-scoped effect registered by a landing.
type ActiveFieldEffect struct {
	Name      FieldEffect `json:"name"`
	Positive  bool        `json:"positive"`
	AppliesTo string      `json:"appliesTo"`
}

// LineSet records spoken dialogue keys. It serializes as a sorted list.
type LineSet map[string]struct{}

func (s LineSet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

func (s LineSet) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return json.Marshal(keys)
}

func (s *LineSet) UnmarshalJSON(b []byte) error {
	var keys []string
	if err := json.Unmarshal(b, &keys); err != nil {
		return fmt.Errorf("spoken lines: %w", err)
	}
	set := make(LineSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	*s = set
	return nil
}

// GameState is the complete state of one match.
type GameState struct {
	ID            string `json:"id"`
	Mode          Mode   `json:"gameMode"`
	Battle        Battle `json:"currentStoryBattle,omitempty"`
	BattleType    string `json:"storyBattleType,omitempty"`
	Story         bool   `json:"isStoryMode"`
	FinalBoss     bool   `json:"isFinalBoss"`
	KingBattle    bool   `json:"isKingNecroBattle"`
	Inversus      bool   `json:"isInversusMode"`
	XaelChallenge bool   `json:"isXaelChallenge"`

	Players        map[string]*Player `json:"players"`
	TurnOrder      []string           `json:"playerIdsInGame"`
	TeamA          []string           `json:"teamA"`
	TeamB          []string           `json:"teamB"`
	Decks          Piles              `json:"decks"`
	Discard        Piles              `json:"discardPiles"`
	Paths          []*Path            `json:"boardPaths"`
	KingPathColors []SpaceColor       `json:"kingPathColors,omitempty"`

	Current             string              `json:"currentPlayer"`
	Phase               Phase               `json:"gamePhase"`
	Round               int                 `json:"turn"`
	ConsecutivePasses   int                 `json:"consecutivePasses"`
	FieldEffects        []ActiveFieldEffect `json:"activeFieldEffects"`
	ReversusTotalActive bool                `json:"reversusTotalActive"`
	RevealedHands       []string            `json:"revealedHands"`

	SelectedCardID int     `json:"selectedCard,omitempty"`
	ReversusTarget string  `json:"reversusTarget,omitempty"`
	PulaTarget     string  `json:"pulaTarget,omitempty"`
	IndividualFlow bool    `json:"reversusTotalIndividualFlow,omitempty"`
	Pending        *Prompt `json:"pending,omitempty"`

	TeamAHearts         int  `json:"teamA_hearts,omitempty"`
	TeamBHearts         int  `json:"teamB_hearts,omitempty"`
	ContravoxUses       int  `json:"contravoxAbilityUses"`
	ReversumAbilityUsed bool `json:"reversumAbilityUsedThisRound"`
	NecroXUsed          bool `json:"necroXUsedThisRound"`
	XaelOffered         bool `json:"xaelChallengeOffered"`
	XaelStarted         bool `json:"xaelChallengeStarted"`

	SpokenLines    LineSet `json:"spokenLines"`
	ElapsedSeconds int     `json:"elapsedSeconds"`
	NextCardID     int     `json:"nextCardId"`

	Over    bool     `json:"over"`
	Won     bool     `json:"won"`
	Result  string   `json:"result,omitempty"`
	Winners []string `json:"winners,omitempty"`
}

// Player looks up a seat. Returns nil for unknown ids.
func (gs *GameState) Player(id string) *Player {
	return gs.Players[id]
}

// ActivePlayers returns the non-eliminated players in turn order.
func (gs *GameState) ActivePlayers() []*Player {
	var out []*Player
	for _, id := range gs.TurnOrder {
		if p := gs.Players[id]; p != nil && !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// Opponents returns the active players other than id, in turn order.
func (gs *GameState) Opponents(id string) []*Player {
	var out []*Player
	for _, p := range gs.ActivePlayers() {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// FreePaths returns the paths nobody stands on.
func (gs *GameState) FreePaths() []*Path {
	taken := make(map[int]bool)
	for _, p := range gs.Players {
		taken[p.PathID] = true
	}
	var out []*Path
	for _, path := range gs.Paths {
		if !taken[path.ID] {
			out = append(out, path)
		}
	}
	return out
}

// PathOf returns the path a player stands on, or nil.
func (gs *GameState) PathOf(p *Player) *Path {
	if p.PathID < 0 || p.PathID >= len(gs.Paths) {
		return nil
	}
	return gs.Paths[p.PathID]
}

// Team returns the team ids containing id, or nil.
func (gs *GameState) Team(id string) []string {
	for _, team := range [][]string{gs.TeamA, gs.TeamB} {
		for _, m := range team {
			if m == id {
				return team
			}
		}
	}
	return nil
}

// SameTeam reports whether every id is on one team.
func (gs *GameState) SameTeam(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	team := gs.Team(ids[0])
	for _, id := range ids[1:] {
		if !contains(team, id) {
			return false
		}
	}
	return team != nil
}

// Partner returns a seat's teammate in duo play outside the final battle.
func (gs *GameState) Partner(id string) *Player {
	if gs.Mode != ModeDuo || gs.FinalBoss {
		return nil
	}
	for _, m := range gs.Team(id) {
		if m != id {
			return gs.Players[m]
		}
	}
	return nil
}

// HasFieldEffect reports whether name applies to the player this round.
func (gs *GameState) HasFieldEffect(name FieldEffect, playerID string) bool {
	for _, fe := range gs.FieldEffects {
		if fe.Name == name && fe.AppliesTo == playerID {
			return true
		}
	}
	return false
}

// CountCards counts every non-ephemeral card across decks, discard piles,
// hands and play zones.
func (gs *GameState) CountCards() int {
	n := 0
	count := func(cards []*Card) {
		for _, c := range cards {
			if !c.Ephemeral {
				n++
			}
		}
	}
	count(gs.Decks.Value)
	count(gs.Decks.Effect)
	count(gs.Discard.Value)
	count(gs.Discard.Effect)
	for _, p := range gs.Players {
		count(p.Hand)
		count(p.Played.Value)
		count(p.Played.Effect)
		if p.ReplacedByCurse != nil {
			count([]*Card{p.ReplacedByCurse})
		}
	}
	return n
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() (*GameState, error) {
	b, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	var out GameState
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	return &out, nil
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
