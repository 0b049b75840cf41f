package net

import (
	"slices"

	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/log"
)

// BuildStateView renders the state as the given seat sees it. Other hands
// stay hidden unless revealed or the match is over; an obscured seat
// cannot read its own cards.
func BuildStateView(state *game.GameState, viewer string) *StateView {
	sv := &StateView{
		You:            viewer,
		Round:          state.Round,
		Phase:          state.Phase.String(),
		Current:        state.Current,
		IsYourTurn:     state.Current == viewer,
		Mode:           state.Mode.String(),
		ReversusTotal:  state.ReversusTotalActive,
		TeamAHearts:    state.TeamAHearts,
		TeamBHearts:    state.TeamBHearts,
		ElapsedSeconds: state.ElapsedSeconds,
	}
	if state.Battle != game.BattleNone {
		sv.Battle = state.Battle.String()
	}
	for _, fe := range state.FieldEffects {
		sv.FieldEffects = append(sv.FieldEffects, FieldEffectView{Name: fe.Name.String(), Positive: fe.Positive, Player: fe.AppliesTo})
	}
	for _, id := range state.TurnOrder {
		p := state.Players[id]
		if p == nil {
			continue
		}
		sv.Players = append(sv.Players, playerView(state, p, viewer))
	}
	for _, path := range state.Paths {
		pv := PathView{ID: path.ID, Owner: path.PlayerID}
		for _, s := range path.Spaces {
			v := SpaceView{ID: s.ID, Color: s.Color.String(), Used: s.Used, Heart: s.Heart}
			if s.Effect != game.FieldNone {
				v.Effect = s.Effect.String()
			}
			pv.Spaces = append(pv.Spaces, v)
		}
		sv.Paths = append(sv.Paths, pv)
	}
	return sv
}

func playerView(state *game.GameState, p *game.Player, viewer string) PlayerView {
	pv := PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Position:   p.Position,
		PathID:     p.PathID,
		Hearts:     p.Hearts,
		MaxHearts:  p.MaxHearts,
		Stars:      p.Stars,
		LiveScore:  p.LiveScore,
		Status:     p.Status.String(),
		HandCount:  len(p.Hand),
		Eliminated: p.Eliminated,
		Obscured:   p.Obscured,
	}
	if p.Effects.Score != game.EffectNone {
		pv.ScoreEffect = p.Effects.Score.String()
	}
	if p.Effects.Movement != game.EffectNone {
		pv.MovementEffect = p.Effects.Movement.String()
	}
	if p.Resto != nil {
		pv.Resto = p.Resto.Value
	}
	for _, c := range p.Played.Value {
		pv.PlayedValues = append(pv.PlayedValues, c.Value)
	}
	for _, c := range p.Played.Effect {
		pv.PlayedEffects = append(pv.PlayedEffects, c.Name())
	}

	visible := state.Over || slices.Contains(state.RevealedHands, p.ID) || (p.ID == viewer && !p.Obscured)
	if visible {
		for _, c := range p.Hand {
			pv.Hand = append(pv.Hand, CardView{ID: c.ID, Name: c.Name(), Kind: c.Kind.String(), Blocked: c.Blocked, Cooldown: c.Cooldown})
		}
	}
	return pv
}

// ActionViews numbers a turn's actions.
func ActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Desc: a.String()})
	}
	return views
}

// NewPromptView numbers a prompt's options.
func NewPromptView(p game.Prompt) *PromptView {
	pv := &PromptView{Kind: p.Kind.String(), Text: p.Text}
	for i, o := range p.Options {
		pv.Options = append(pv.Options, OptionView{Index: i, Label: o.Label, Value: o.Value})
	}
	return pv
}

// NewEventView strips an event down for clients.
func NewEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Round:   e.Round,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}
