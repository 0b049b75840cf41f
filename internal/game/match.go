package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Xael/reversusfinal/internal/log"
)

// HumanID is the seat the local player always occupies.
const HumanID = "player-1"

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Mode    Mode
	Players int    // seats in a quick match (2-4); ignored for story battles
	Battle  Battle // BattleNone for a quick match

	// Opponent replaces player-2's personality in a quick duel.
	Opponent     AIType
	OpponentName string

	Rules        *Rules
	Logger       log.EventLogger
	Seed         uint64 // RNG seed (0 for random)
	Controllers  map[string]PlayerController
	Achievements AchievementSink
	Renderer     Renderer
	Announcer    Announcer

	ThinkDelay    time.Duration // pause before each AI turn
	PromptTimeout time.Duration // auto-dismiss for acknowledgement prompts
	TimeLimit     time.Duration // final-battle clock; 0 uses the rules, <0 disables
	MaxRounds     int           // stop after this many rounds (0 = 200)
	Clock         func() time.Time
}

// Outcome summarizes a finished (or interrupted) match.
type Outcome struct {
	Won     bool
	Reason  string
	Winners []string
	Rounds  int
}

// Match orchestrates one game. All engine state is owned by the goroutine
// running Run; collaborators only observe it.
type Match struct {
	ID           string
	State        *GameState
	Rules        *Rules
	Controllers  map[string]PlayerController
	Logger       log.EventLogger
	Renderer     Renderer
	Announcer    Announcer
	Achievements AchievementSink

	rng           *rand.Rand
	ctx           context.Context
	thinkDelay    time.Duration
	promptTimeout time.Duration
	timeLimit     time.Duration
	maxRounds     int
	clock         func() time.Time
	startedAt     time.Time
	elapsedBase   int
	started       bool
}

// NewMatch builds the initial state for a match. Nothing is dealt until Run.
func NewMatch(cfg MatchConfig) (*Match, error) {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	maxRounds := cfg.MaxRounds
	if maxRounds == 0 {
		maxRounds = 200 // safety limit
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	m := &Match{
		ID:            uuid.NewString(),
		Rules:         rules,
		Controllers:   cfg.Controllers,
		Logger:        logger,
		Renderer:      cfg.Renderer,
		Announcer:     cfg.Announcer,
		Achievements:  cfg.Achievements,
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ctx:           context.Background(),
		thinkDelay:    cfg.ThinkDelay,
		promptTimeout: cfg.PromptTimeout,
		maxRounds:     maxRounds,
		clock:         clock,
	}
	if m.Controllers == nil {
		m.Controllers = make(map[string]PlayerController)
	}
	if m.Renderer == nil {
		m.Renderer = nopRenderer{}
	}
	if m.Announcer == nil {
		m.Announcer = nopAnnouncer{}
	}
	if m.Achievements == nil {
		m.Achievements = NewMemoryAchievements()
	}

	gs, err := m.newGameState(cfg)
	if err != nil {
		return nil, err
	}
	m.State = gs

	switch {
	case cfg.TimeLimit > 0:
		m.timeLimit = cfg.TimeLimit
	case cfg.TimeLimit == 0 && gs.Battle == BattleNecroversoFinal:
		m.timeLimit = time.Duration(rules.FinalBattleMinutes) * time.Minute
	}
	return m, nil
}

func (m *Match) newGameState(cfg MatchConfig) (*GameState, error) {
	rules := m.Rules
	gs := &GameState{
		ID:          m.ID,
		Mode:        cfg.Mode,
		Battle:      cfg.Battle,
		Players:     make(map[string]*Player),
		Phase:       PhaseSetup,
		Round:       1,
		SpokenLines: LineSet{},
		TeamA:       append([]string(nil), rules.TeamA...),
		TeamB:       append([]string(nil), rules.TeamB...),
	}
	if gs.Mode == ModeInversus && gs.Battle == BattleNone {
		gs.Battle = BattleInversus
	}

	var overrides []SeatOverride
	if gs.Battle != BattleNone {
		preset, ok := rules.Battle(gs.Battle)
		if !ok {
			return nil, fmt.Errorf("unknown battle %q", gs.Battle)
		}
		gs.Mode = preset.Mode
		gs.BattleType = preset.Type
		gs.TurnOrder = append([]string(nil), preset.Players...)
		overrides = preset.Overrides
	} else {
		n := cfg.Players
		if n == 0 {
			n = 2
			if gs.Mode == ModeDuo {
				n = 4
			}
		}
		if gs.Mode == ModeDuo && n != 4 {
			return nil, fmt.Errorf("duo mode needs 4 players, got %d", n)
		}
		if n < 2 || n > len(rules.Players) {
			return nil, fmt.Errorf("player count %d out of range 2-%d", n, len(rules.Players))
		}
		for _, e := range rules.Players[:n] {
			gs.TurnOrder = append(gs.TurnOrder, e.ID)
		}
	}

	gs.Current = gs.TurnOrder[0]
	gs.Inversus = gs.Mode == ModeInversus
	gs.KingBattle = gs.Battle == BattleNecroversoKing
	gs.FinalBoss = gs.Battle == BattleNecroversoFinal || gs.KingBattle
	gs.XaelChallenge = gs.Battle == BattleXaelChallenge
	gs.XaelStarted = gs.XaelChallenge
	gs.Story = gs.Battle != BattleNone && !gs.Inversus
	gs.ContravoxUses = 3
	if gs.Battle == BattleNecroversoFinal {
		gs.TeamA = []string{"player-1", "player-4"}
		gs.TeamB = []string{"player-2", "player-3"}
	}

	preset, _ := rules.Battle(gs.Battle)
	for i, id := range gs.TurnOrder {
		entry := rules.Player(id)
		if entry == nil {
			return nil, fmt.Errorf("unknown player %q", id)
		}
		p := &Player{
			ID:                id,
			Name:              entry.Name,
			IsHuman:           entry.Human,
			PathID:            i,
			Position:          1,
			TargetPathForPula: -1,
		}
		if gs.Inversus {
			p.PathID = -1
		}
		for _, o := range overrides {
			if o.ID == id {
				p.Name = o.Name
				p.AIType = o.AI
			}
		}
		if id == "player-2" && gs.Battle == BattleNone && cfg.Opponent != AIDefault {
			p.AIType = cfg.Opponent
			if cfg.OpponentName != "" {
				p.Name = cfg.OpponentName
			}
		}
		if preset != nil && preset.Hearts > 0 {
			p.Hearts, p.MaxHearts = preset.Hearts, preset.Hearts
		}
		if id == HumanID && gs.Story && m.Achievements.Has("xael_win") {
			p.StarPower = true
		}
		gs.Players[id] = p
	}
	if preset != nil && preset.TeamHearts > 0 {
		gs.TeamAHearts, gs.TeamBHearts = preset.TeamHearts, preset.TeamHearts
	}

	m.State = gs
	gs.Decks.Value = BuildDeck(rules, CardValue, m.newCardID)
	gs.Decks.Effect = BuildDeck(rules, CardEffect, m.newCardID)
	Shuffle(m.rng, gs.Decks.Value)
	Shuffle(m.rng, gs.Decks.Effect)

	if gs.KingBattle {
		gs.KingPathColors = append([]SpaceColor(nil), DefaultKingColors...)
	}
	gs.Paths = GeneratePaths(rules, BoardOptions{
		FinalBoss:  gs.Battle == BattleNecroversoFinal,
		King:       gs.KingBattle,
		Xael:       gs.XaelChallenge,
		Narrador:   gs.Battle == BattleNarrador,
		Reversum:   gs.Battle == BattleReversum,
		Versatrix:  gs.Battle == BattleVersatrix,
		KingColors: gs.KingPathColors,
	}, m.rng)
	if !gs.FinalBoss && !gs.Inversus && !gs.XaelChallenge {
		for i, id := range gs.TurnOrder {
			if i < len(gs.Paths) {
				gs.Paths[i].PlayerID = id
			}
		}
	}

	if gs.KingBattle && m.Achievements.Has("versatrix_card_collected") {
		if p1 := gs.Players[HumanID]; p1 != nil {
			p1.Hand = append(p1.Hand, &Card{ID: m.newCardID(), Kind: CardEffect, Effect: EffectVersatrix, Ephemeral: true})
			m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), HumanID, "A bênção da Versatrix está com você. Uma carta especial foi adicionada à sua mão."))
		}
	}
	return gs, nil
}

// Resume adopts a saved state; Run then continues without a new deal.
func (m *Match) Resume(gs *GameState) {
	if gs.SpokenLines == nil {
		gs.SpokenLines = LineSet{}
	}
	gs.Pending = nil
	if gs.Phase != PhaseGameOver {
		gs.Phase = PhasePlaying
	}
	m.State = gs
	m.ID = gs.ID
	m.elapsedBase = gs.ElapsedSeconds
	m.started = true
}

// Run executes the match loop until the game ends or ctx is cancelled.
func (m *Match) Run(ctx context.Context) (Outcome, error) {
	m.ctx = ctx
	m.startedAt = m.clock()
	gs := m.State

	if !m.started {
		if err := m.start(); err != nil {
			m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), "", err))
			return m.outcome(), err
		}
	}

	for !gs.Over {
		if err := ctx.Err(); err != nil {
			return m.outcome(), err
		}
		m.tick()
		if gs.Over {
			break
		}
		if gs.Round > m.maxRounds {
			m.finish(false, fmt.Sprintf("limite de rodadas (%d)", m.maxRounds))
			break
		}
		if err := m.runTurn(); err != nil {
			return m.outcome(), err
		}
	}
	return m.outcome(), nil
}

func (m *Match) outcome() Outcome {
	gs := m.State
	return Outcome{Won: gs.Won, Reason: gs.Result, Winners: gs.Winners, Rounds: gs.Round}
}

// tick refreshes the elapsed clock and enforces the final-battle limit.
func (m *Match) tick() {
	gs := m.State
	gs.ElapsedSeconds = m.elapsedBase + int(m.clock().Sub(m.startedAt)/time.Second)
	if m.timeLimit > 0 && time.Duration(gs.ElapsedSeconds)*time.Second >= m.timeLimit {
		m.finish(false, "time")
	}
}

// start runs the initial draw (or the battle-specific equivalent) and opens
// the first round.
func (m *Match) start() error {
	gs := m.State
	m.started = true

	switch {
	case gs.Inversus:
		m.startNewRound(true)
		return nil
	case gs.FinalBoss || gs.XaelChallenge:
		taken := make(map[int]bool)
		for _, id := range gs.TurnOrder {
			for _, path := range gs.Paths {
				if !taken[path.ID] {
					gs.Players[id].PathID = path.ID
					taken[path.ID] = true
					break
				}
			}
		}
		m.startNewRound(true)
		return nil
	}

	gs.Phase = PhaseDrawingInitial
	m.log(log.NewPhaseChangeEvent(gs.Round, gs.Phase.String()))
	for attempt := 0; ; attempt++ {
		if attempt >= 100 {
			return fmt.Errorf("initial draw: no unique high card after %d attempts", attempt)
		}
		drawn := make(map[string]*Card, len(gs.TurnOrder))
		for _, id := range gs.TurnOrder {
			c := m.DrawCard(CardValue)
			if c == nil {
				return fmt.Errorf("initial draw for %s: no card available", id)
			}
			drawn[id] = c
			m.log(log.NewInitialDrawEvent(id, gs.Players[id].Name, c.Value))
		}

		best, unique := "", false
		for _, id := range gs.TurnOrder {
			switch {
			case best == "" || drawn[id].Value > drawn[best].Value:
				best, unique = id, true
			case drawn[id].Value == drawn[best].Value:
				unique = false
			}
		}
		if unique {
			gs.Current = best
			for _, id := range gs.TurnOrder {
				rest := *drawn[id]
				gs.Players[id].Resto = &rest
				m.discard(drawn[id])
			}
			m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), best, gs.Players[best].Name+" tirou a carta mais alta e começa!"))
			break
		}
		for _, id := range gs.TurnOrder {
			m.discard(drawn[id])
		}
		m.log(log.NewInfoEvent(gs.Round, gs.Phase.String(), "", "Empate! Sacando novas cartas..."))
	}
	m.startNewRound(true)
	return nil
}

// runTurn executes a single turn for the current player.
func (m *Match) runTurn() error {
	gs := m.State
	p := gs.Players[gs.Current]
	if p == nil || p.Eliminated {
		gs.Phase = PhasePlaying
		m.advance()
		return nil
	}

	m.log(log.NewTurnStartEvent(gs.Round, p.ID, p.Name))
	if ctrl := m.Controllers[p.ID]; ctrl != nil && p.IsHuman {
		if err := m.humanTurn(p, ctrl); err != nil {
			return err
		}
	} else {
		m.aiTurn(p)
	}
	if gs.Over {
		return nil
	}
	m.advance()
	return nil
}

// advance ends the round on a full silent cycle, otherwise hands the turn
// to the next active player.
func (m *Match) advance() {
	gs := m.State
	if gs.Over || gs.Phase != PhasePlaying {
		return
	}
	active := gs.ActivePlayers()
	if gs.ConsecutivePasses >= 2*len(active) {
		m.endRound()
		return
	}
	if gs.ConsecutivePasses == len(active) {
		m.log(log.NewLastCallEvent(gs.Round))
	}

	idx := indexOf(gs.TurnOrder, gs.Current)
	n := len(gs.TurnOrder)
	for attempts := 1; ; attempts++ {
		if attempts > 2*n {
			m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), "", errors.New("no active player to hand the turn to")))
			m.endRound()
			return
		}
		idx = (idx + 1) % n
		if p := gs.Players[gs.TurnOrder[idx]]; p != nil && !p.Eliminated {
			gs.Current = p.ID
			break
		}
	}

	next := gs.Players[gs.Current]
	next.PlayedValueCardThisTurn = false
	next.PlayedEffectCardThisTurn = false
	if next.ID == HumanID && next.StarPower && next.StarPowerCooldown > 0 {
		next.StarPowerCooldown--
	}
	m.render()
}

func (m *Match) endRound() {
	gs := m.State
	gs.Phase = PhaseResolution
	m.log(log.NewPhaseChangeEvent(gs.Round, gs.Phase.String()))
	m.ResolveRound()
}

// startNewRound clears the previous round and deals. The first round keeps
// the turn counter and skips field effects.
func (m *Match) startNewRound(first bool) {
	gs := m.State
	if !first {
		gs.Round++
	}

	for _, p := range gs.ActivePlayers() {
		for _, c := range p.Played.Value {
			m.discard(c)
		}
		for _, c := range p.Played.Effect {
			m.discard(c)
		}
		p.Played = Played{}
		if p.NextResto != nil {
			p.Resto = p.NextResto
			p.NextResto = nil
		}
		m.revertCurse(p)
		p.Effects = Effects{}
		p.PlayedValueCardThisTurn = false
		p.PlayedEffectCardThisTurn = false
		p.TargetPathForPula = -1
		for _, c := range p.Hand {
			if c.Effect == EffectVersatrix && c.Cooldown > 0 {
				c.Cooldown--
			}
		}
	}

	m.clearSelection()
	gs.ReversusTotalActive = false
	gs.ConsecutivePasses = 0
	gs.FieldEffects = nil
	gs.RevealedHands = nil
	gs.ReversumAbilityUsed = false
	gs.NecroXUsed = false

	m.log(log.NewRoundStartEvent(gs.Round))
	if gs.Inversus {
		m.inversusFlourish()
	}

	if !m.replenish() {
		m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), "", errDealFailed))
	}

	if gs.KingBattle {
		if !first {
			m.rotateKingBoard()
		}
		m.applyKingBoardEffects()
		m.CheckGameEnd()
	} else if !first {
		m.TriggerFieldEffects()
		m.CheckGameEnd()
	}
	if gs.Over {
		return
	}

	gs.Phase = PhasePlaying
	if p := gs.Players[gs.Current]; p != nil {
		p.PlayedValueCardThisTurn = false
		p.PlayedEffectCardThisTurn = false
	}
	m.ComputeLiveScores()
	m.render()
}

// inversusFlourish rolls the cosmetic screen effects of the Inversus mode.
func (m *Match) inversusFlourish() {
	for _, fx := range []string{"flip", "invert", "mirror"} {
		if m.rng.Float64() < 0.15 {
			m.Announcer.Announce(fx, "inversus", 0)
		}
	}
}

// finish ends the match once; later calls are ignored.
func (m *Match) finish(won bool, reason string) {
	gs := m.State
	if gs.Over {
		return
	}
	gs.Over = true
	gs.Won = won
	gs.Result = reason
	gs.Phase = PhaseGameOver
	gs.Pending = nil
	m.log(log.NewGameOverEvent(gs.Round, won, reason))
	m.grantEndAchievements(won)
	m.render()
}

func (m *Match) grantEndAchievements(won bool) {
	gs := m.State
	var ids []string
	if won {
		switch gs.Battle {
		case BattleTutorial:
			ids = append(ids, "tutorial_win")
		case BattleContravox:
			ids = append(ids, "contravox_win")
		case BattleVersatrix:
			ids = append(ids, "versatrix_win")
		case BattleReversum:
			ids = append(ids, "reversum_win")
		case BattleNecroversoKing:
			ids = append(ids, "true_end_beta")
		case BattleNecroversoFinal:
			ids = append(ids, "true_end_final")
		case BattleInversus:
			ids = append(ids, "inversus_win")
		case BattleNarrador:
			ids = append(ids, "120%_unlocked")
		case BattleXaelChallenge:
			ids = append(ids, "xael_win")
		}
		if gs.Battle != BattleTutorial && gs.ElapsedSeconds < m.Rules.SpeedRunSeconds {
			ids = append(ids, "speed_run")
		}
	} else if gs.Battle == BattleVersatrix {
		ids = append(ids, "versatrix_loss")
	}
	if gs.Battle == BattleNone {
		if won {
			ids = append(ids, "first_win")
			if gs.Mode == ModeSolo && len(gs.TurnOrder) == 2 {
				ids = append(ids, "quick_duel_win")
			}
		} else {
			ids = append(ids, "first_defeat")
		}
	}
	for _, id := range ids {
		m.grant(id)
	}
}

func (m *Match) grant(id string) {
	if m.Achievements.Grant(id) {
		m.log(log.NewAchievementEvent(id, m.Achievements.Title(id)))
	}
}

// log records an event and forwards it to every seat.
func (m *Match) log(event log.GameEvent) {
	if event.Round == 0 && m.State != nil {
		event.Round = m.State.Round
	}
	if event.Phase == "" && m.State != nil {
		event.Phase = m.State.Phase.String()
	}
	m.Logger.Log(event)
	for _, c := range m.Controllers {
		c.Notify(m.ctx, event)
	}
}

func (m *Match) render() {
	m.Renderer.Render(m.State)
}

func (m *Match) announce(text, category string) {
	m.Announcer.Announce(text, category, 1500*time.Millisecond)
}

// pause sleeps for d unless the match is cancelled first.
func (m *Match) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-m.ctx.Done():
	}
}

// humanSeat returns the first human seat with a controller attached.
func (m *Match) humanSeat() *Player {
	for _, id := range m.State.TurnOrder {
		p := m.State.Players[id]
		if p != nil && p.IsHuman && m.Controllers[id] != nil {
			return p
		}
	}
	return nil
}

// ask suspends on a seat's controller. Pending holds the prompt meanwhile.
func (m *Match) ask(ctx context.Context, p *Player, prompt Prompt) (int, error) {
	ctrl := m.Controllers[p.ID]
	if ctrl == nil {
		return -1, fmt.Errorf("%w: no controller for %s", ErrInvalidChoice, p.ID)
	}
	gs := m.State
	prompt.Player = p.ID
	gs.Pending = &prompt
	m.render()
	idx, err := ctrl.Choose(ctx, gs, prompt)
	gs.Pending = nil
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(prompt.Options) {
		return -1, fmt.Errorf("%w: option %d of %d", ErrInvalidChoice, idx, len(prompt.Options))
	}
	return idx, nil
}

// acknowledge shows a blocking notice to the human seat. It dismisses
// itself after the prompt timeout.
func (m *Match) acknowledge(text string) {
	p := m.humanSeat()
	if p == nil {
		return
	}
	ctx := m.ctx
	if m.promptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.promptTimeout)
		defer cancel()
	}
	gs := m.State
	prev := gs.Phase
	gs.Phase = PhaseAwaitingInput
	_, err := m.ask(ctx, p, Prompt{Kind: PromptAcknowledge, Text: text, Options: []Option{{Label: "Continuar"}}})
	gs.Phase = prev
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && m.ctx.Err() == nil {
		m.log(log.NewErrorEvent(gs.Round, gs.Phase.String(), p.ID, err))
	}
}

func indexOf(ids []string, id string) int {
	for i, s := range ids {
		if s == id {
			return i
		}
	}
	return -1
}

// ConfigFromNames starts a MatchConfig from textual mode and battle names as
// they arrive from the wire. An empty mode is solo.
func ConfigFromNames(mode string, players int, battle string) (MatchConfig, error) {
	cfg := MatchConfig{Mode: ModeSolo, Players: players}
	if mode != "" {
		md, err := ParseMode(mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = md
	}
	b, err := ParseBattle(battle)
	if err != nil {
		return cfg, err
	}
	cfg.Battle = b
	return cfg, nil
}
