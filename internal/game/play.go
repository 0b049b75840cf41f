package game

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Xael/reversusfinal/internal/log"
)

// PlayOptions carries the sub-choices of a composed play.
type PlayOptions struct {
	// Category is the slot a Reversus card inverts.
	Category Category
	// LockEffect, when set, turns a Reversus Total into an individual lock
	// of this effect on the target.
	LockEffect EffectKind
}

// versatrixCooldown is how many rounds the Versatrix card rests after use.
const versatrixCooldown = 3

// starPowerCooldown is how many turns Xael's star power rests after use.
const starPowerCooldown = 3

// CanSelect reports why a hand card cannot start a play, or nil.
func (m *Match) CanSelect(p *Player, c *Card) error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: card not in hand", ErrIllegalAction)
	case c.Blocked || c.Effect == EffectNecroXCurse:
		return fmt.Errorf("%w: %s está bloqueada", ErrIllegalAction, c.Name())
	case c.Effect == EffectVersatrix && c.Cooldown > 0:
		return fmt.Errorf("%w: Carta da Versatrix em recarga (%d)", ErrIllegalAction, c.Cooldown)
	case c.Kind == CardValue && len(p.ValueCards()) <= 1:
		return fmt.Errorf("%w: a última carta de valor fica na mão", ErrIllegalAction)
	case c.Kind == CardValue && p.PlayedValueCardThisTurn:
		return fmt.Errorf("%w: já jogou uma carta de valor neste turno", ErrIllegalAction)
	case c.Kind == CardEffect && p.PlayedEffectCardThisTurn:
		return fmt.Errorf("%w: já jogou uma carta de efeito neste turno", ErrIllegalAction)
	}
	return nil
}

// LegalActions lists the top-level choices of a human turn. End Turn is
// always offered; EndTurn itself rejects it while a value play is owed.
func (m *Match) LegalActions(p *Player) []Action {
	var actions []Action
	for _, c := range p.Hand {
		if m.CanSelect(p, c) != nil {
			continue
		}
		actions = append(actions, Action{Type: ActionPlayCard, CardID: c.ID, Desc: "Jogar " + c.Name()})
	}
	if p.StarPower && p.StarPowerCooldown == 0 {
		actions = append(actions, Action{Type: ActionStarPower, Desc: "Poder da Estrela"})
	}
	actions = append(actions, Action{Type: ActionEndTurn, Desc: "Passar o turno"})
	return actions
}

// humanTurn loops over actions until the seat ends its turn.
func (m *Match) humanTurn(p *Player, ctrl PlayerController) error {
	gs := m.State
	for !gs.Over {
		gs.Phase = PhasePlaying
		m.render()
		a, err := ctrl.ChooseAction(m.ctx, gs, m.LegalActions(p))
		if err != nil {
			return err
		}
		switch a.Type {
		case ActionEndTurn:
			if m.EndTurn(p) == nil {
				return nil
			}
		case ActionStarPower:
			m.UseStarPower(p)
		case ActionPlayCard:
			if err := m.composePlay(p, a.CardID); err != nil {
				return err
			}
		}
	}
	return nil
}

// SelectCard marks a hand card as the one being played.
func (m *Match) SelectCard(p *Player, cardID int) (*Card, error) {
	c := p.FindCard(cardID)
	if err := m.CanSelect(p, c); err != nil {
		m.log(log.NewIllegalActionEvent(m.State.Round, p.ID, err.Error()))
		return nil, err
	}
	m.State.SelectedCardID = c.ID
	return c, nil
}

// CancelPlay abandons a play under composition and restores the playing
// phase. Calling it twice is harmless.
func (m *Match) CancelPlay() {
	m.clearSelection()
	m.State.Phase = PhasePlaying
}

func (m *Match) clearSelection() {
	gs := m.State
	gs.SelectedCardID = 0
	gs.ReversusTarget = ""
	gs.PulaTarget = ""
	gs.IndividualFlow = false
	gs.Pending = nil
}

// errCancelled reports that the seat picked Cancel (or an invalid option).
var errCancelled = errors.New("play cancelled")

// choose asks a composition prompt with a trailing Cancel option and
// returns the chosen option.
func (m *Match) choose(p *Player, kind PromptKind, text string, opts []Option) (Option, error) {
	opts = append(opts, Option{Label: CancelLabel})
	idx, err := m.ask(m.ctx, p, Prompt{Kind: kind, Text: text, Options: opts})
	if err != nil {
		if errors.Is(err, ErrInvalidChoice) {
			m.log(log.NewIllegalActionEvent(m.State.Round, p.ID, err.Error()))
			return Option{}, errCancelled
		}
		return Option{}, err
	}
	if opts[idx].Label == CancelLabel && opts[idx].Value == "" {
		return Option{}, errCancelled
	}
	return opts[idx], nil
}

// composePlay walks the sub-choices a card needs, then commits it.
// Cancelling at any step restores the pre-selection state.
func (m *Match) composePlay(p *Player, cardID int) error {
	card, err := m.SelectCard(p, cardID)
	if err != nil {
		return nil
	}
	err = m.composeSelected(p, card)
	if errors.Is(err, errCancelled) {
		m.CancelPlay()
		return nil
	}
	return err
}

func (m *Match) composeSelected(p *Player, card *Card) error {
	gs := m.State
	if card.Kind == CardValue {
		return m.PlayCard(p, card, p.ID, PlayOptions{})
	}

	if card.Effect == EffectReversusTotal {
		mode, err := m.choose(p, PromptReversusTotalMode, "Reversus Total: global ou individual?", []Option{
			{Label: "Global", Value: "global"},
			{Label: "Individual", Value: "individual"},
		})
		if err != nil {
			return err
		}
		if mode.Value == "global" {
			return m.PlayCard(p, card, p.ID, PlayOptions{})
		}
		gs.IndividualFlow = true
		return m.composeIndividualLock(p, card)
	}

	gs.Phase = PhaseTargeting
	target, err := m.chooseTarget(p, "Escolha o alvo de "+card.Name())
	if err != nil {
		return err
	}

	switch card.Effect {
	case EffectReversus:
		gs.ReversusTarget = target.ID
		var cat Category
		if p.Obscured {
			cat = CategoryScore
			if m.rng.IntN(2) == 1 {
				cat = CategoryMovement
			}
		} else {
			gs.Phase = PhaseReversusTargeting
			opt, err := m.choose(p, PromptReversusCategory, "Reverter pontuação ou movimento?", []Option{
				{Label: "Pontuação", Value: CategoryScore.String()},
				{Label: "Movimento", Value: CategoryMovement.String()},
			})
			if err != nil {
				return err
			}
			cat = CategoryScore
			if opt.Value == CategoryMovement.String() {
				cat = CategoryMovement
			}
		}
		return m.PlayCard(p, card, target.ID, PlayOptions{Category: cat})

	case EffectPula:
		gs.PulaTarget = target.ID
		path, err := m.choosePulaPath(p)
		if err != nil {
			return err
		}
		target.TargetPathForPula = path
		return m.PlayCard(p, card, target.ID, PlayOptions{})
	}
	return m.PlayCard(p, card, target.ID, PlayOptions{})
}

func (m *Match) composeIndividualLock(p *Player, card *Card) error {
	gs := m.State
	gs.Phase = PhaseTargeting
	target, err := m.chooseTarget(p, "Reversus Total individual: escolha o alvo")
	if err != nil {
		return err
	}
	gs.ReversusTarget = target.ID

	gs.Phase = PhaseReversusTargeting
	var opts []Option
	for _, e := range []EffectKind{EffectMais, EffectMenos, EffectSobe, EffectDesce, EffectPula} {
		opts = append(opts, Option{Label: e.String(), Value: e.String()})
	}
	opt, err := m.choose(p, PromptLockEffect, "Qual efeito travar em "+target.Name+"?", opts)
	if err != nil {
		return err
	}
	var lock EffectKind
	if err := lock.UnmarshalText([]byte(opt.Value)); err != nil {
		return errCancelled
	}

	if lock == EffectPula {
		gs.PulaTarget = target.ID
		path, err := m.choosePulaPath(p)
		if err != nil {
			return err
		}
		target.TargetPathForPula = path
	}
	return m.PlayCard(p, card, target.ID, PlayOptions{LockEffect: lock})
}

func (m *Match) chooseTarget(p *Player, text string) (*Player, error) {
	var opts []Option
	for _, t := range m.State.ActivePlayers() {
		opts = append(opts, Option{Label: t.Name, Value: t.ID})
	}
	opt, err := m.choose(p, PromptTarget, text, opts)
	if err != nil {
		return nil, err
	}
	t := m.State.Players[opt.Value]
	if t == nil {
		return nil, errCancelled
	}
	return t, nil
}

// choosePulaPath picks a free path for a Pula. An obscured hand picks at
// random; no free path cancels the play.
func (m *Match) choosePulaPath(p *Player) (int, error) {
	gs := m.State
	free := gs.FreePaths()
	if len(free) == 0 {
		m.log(log.NewIllegalActionEvent(gs.Round, p.ID, "Não há caminhos livres para o Pula."))
		return -1, errCancelled
	}
	if p.Obscured {
		return free[m.rng.IntN(len(free))].ID, nil
	}
	gs.Phase = PhasePulaCasting
	var opts []Option
	for _, path := range free {
		opts = append(opts, Option{Label: fmt.Sprintf("Caminho %d", path.ID+1), Value: strconv.Itoa(path.ID)})
	}
	opt, err := m.choose(p, PromptPulaPath, "Escolha o caminho de destino", opts)
	if err != nil {
		return -1, err
	}
	id, convErr := strconv.Atoi(opt.Value)
	if convErr != nil {
		return -1, errCancelled
	}
	return id, nil
}

// PlayCard commits a card from caster's hand onto a target.
func (m *Match) PlayCard(caster *Player, card *Card, targetID string, opts PlayOptions) error {
	gs := m.State
	target := gs.Players[targetID]
	if target == nil || target.Eliminated {
		err := fmt.Errorf("play %s: no such target %q", card.Name(), targetID)
		m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), caster.ID, err))
		m.CancelPlay()
		return nil
	}
	gs.ConsecutivePasses = 0

	dest := target
	if card.Kind == CardValue || (card.Effect == EffectReversusTotal && opts.LockEffect == EffectNone) {
		dest = caster
	}
	if opts.LockEffect != EffectNone {
		card.Locked = true
		card.LockedEffect = opts.LockEffect
		m.log(log.NewEffectLockedEvent(gs.Round, caster.ID, caster.Name, dest.Name, opts.LockEffect.String()))
	}
	if card.Effect != EffectVersatrix {
		caster.RemoveCard(card.ID)
	}
	m.log(log.NewCardPlayedEvent(gs.Round, caster.ID, caster.Name, card.Name(), dest.Name))

	if card.Kind == CardEffect {
		if card.Effect == EffectReversus && !card.Locked {
			card.ReversedCategory = opts.Category
		}
		caster.PlayedEffectCardThisTurn = true
		if i, old := dest.slotCard(card.SlotCategory()); old != nil {
			if old.Locked {
				m.log(log.NewFizzleEvent(gs.Round, caster.ID, dest.Name, old.LockedEffect.String(), card.Name()))
				m.discard(card)
				m.clearSelection()
				m.ComputeLiveScores()
				m.render()
				return nil
			}
			dest.Played.Effect = append(dest.Played.Effect[:i], dest.Played.Effect[i+1:]...)
			m.discard(old)
		}
	}

	if card.Kind == CardValue {
		dest.Played.Value = append(dest.Played.Value, card)
		caster.PlayedValueCardThisTurn = true
		next := *card
		caster.NextResto = &next
	} else {
		if card.Effect != EffectVersatrix && !card.Ephemeral {
			dest.Played.Effect = append(dest.Played.Effect, card)
		}
		m.ApplyEffect(card, dest, caster, opts.Category)
	}

	m.clearSelection()
	gs.Phase = PhasePlaying
	m.ComputeLiveScores()
	m.render()
	return nil
}

// EndTurn passes the turn. It is rejected while the seat still owes a
// value card.
func (m *Match) EndTurn(p *Player) error {
	gs := m.State
	if p.MustPlayValue() {
		m.log(log.NewIllegalActionEvent(gs.Round, p.ID, "Você precisa jogar uma carta de valor antes de passar o turno."))
		return fmt.Errorf("%w: value card required", ErrIllegalAction)
	}
	gs.ConsecutivePasses++
	m.log(log.NewPassEvent(gs.Round, p.ID, p.Name, gs.ConsecutivePasses))
	return nil
}

// UseStarPower reveals every opponent's hand for the round.
func (m *Match) UseStarPower(p *Player) {
	gs := m.State
	if !p.StarPower || p.StarPowerCooldown > 0 {
		m.log(log.NewIllegalActionEvent(gs.Round, p.ID, "Poder da Estrela indisponível."))
		return
	}
	gs.RevealedHands = nil
	for _, o := range gs.Opponents(p.ID) {
		gs.RevealedHands = append(gs.RevealedHands, o.ID)
	}
	p.StarPowerCooldown = starPowerCooldown
	m.Announcer.PlaySound("xael")
	m.log(log.NewAbilityEvent(gs.Round, p.ID, p.Name, "Poder da Estrela"))
	m.render()
}

// playAbility commits an ephemeral ability card that never enters a pile.
func (m *Match) playAbility(caster *Player, effect EffectKind, targetID string, opts PlayOptions) {
	card := &Card{ID: m.newCardID(), Kind: CardEffect, Effect: effect, Ephemeral: true}
	m.log(log.NewAbilityEvent(m.State.Round, caster.ID, caster.Name, effect.String()))
	m.PlayCard(caster, card, targetID, opts)
}
