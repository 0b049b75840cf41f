package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions and replays ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

// record stamps the sequence number and stores the event.
func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

// Events returns a copy of every logged event.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	event = l.record(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}
	return fmt.Sprintf("R%-2d %s| %s", e.Round, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(round int, phase string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewRoundStartEvent(round int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Type:    EventRoundStart,
		Details: fmt.Sprintf("=== Round %d ===", round),
	}
}

func NewTurnStartEvent(round int, player, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventTurnStart,
		Details: fmt.Sprintf("Vez de %s", name),
	}
}

func NewInitialDrawEvent(player, name string, value int) GameEvent {
	return GameEvent{
		Phase:   "drawing_initial",
		Player:  player,
		Type:    EventInitialDraw,
		Card:    fmt.Sprint(value),
		Details: fmt.Sprintf("%s sacou %d", name, value),
	}
}

func NewCardPlayedEvent(round int, player, name, card, targetName string) GameEvent {
	details := fmt.Sprintf("%s jogou %s", name, card)
	if targetName != "" && targetName != name {
		details = fmt.Sprintf("%s jogou %s em %s", name, card, targetName)
	}
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventCardPlayed,
		Card:    card,
		Details: details,
	}
}

func NewEffectAppliedEvent(round int, player, casterName, card, targetName, effect string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventEffectApplied,
		Card:    card,
		Details: fmt.Sprintf("%s usou %s em %s para aplicar o efeito %s", casterName, card, targetName, effect),
	}
}

func NewEffectInvertedEvent(round int, player, card, inverted string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventEffectInverted,
		Card:    card,
		Details: fmt.Sprintf("Reversus Total inverteu %s para %s!", card, inverted),
	}
}

func NewEffectReversedEvent(round int, player, casterName, targetName, category, result string) GameEvent {
	if result == "" {
		result = "Nenhum"
	}
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventEffectReversed,
		Card:    "Reversus",
		Details: fmt.Sprintf("%s usou Reversus em %s para reverter efeito de %s para %s", casterName, targetName, category, result),
	}
}

func NewFizzleEvent(round int, player, targetName, lockedEffect, card string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventFizzle,
		Card:    card,
		Details: fmt.Sprintf("O efeito %s em %s está travado! A carta %s não teve efeito.", lockedEffect, targetName, card),
	}
}

func NewImmuneEvent(round int, player, targetName, effect string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventImmune,
		Card:    effect,
		Details: fmt.Sprintf("%s está imune a %s nesta rodada!", targetName, effect),
	}
}

func NewReversusTotalEvent(round int, player, casterName string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventReversusTotal,
		Card:    "Reversus Total",
		Details: fmt.Sprintf("%s ativou o Reversus Total!", casterName),
	}
}

func NewEffectLockedEvent(round int, player, casterName, targetName, effect string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventEffectLocked,
		Card:    "Reversus Total",
		Details: fmt.Sprintf("%s travou o efeito %s em %s", casterName, effect, targetName),
	}
}

func NewFieldEffectEvent(round int, player, name, effect string, positive bool) GameEvent {
	kind := "negativo"
	if positive {
		kind = "positivo"
	}
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventFieldEffect,
		Card:    effect,
		Details: fmt.Sprintf("%s ativou o efeito %s: %s", name, kind, effect),
	}
}

func NewPathChangeEvent(round int, player, name string, pathID int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventPathChange,
		Card:    "Pula",
		Details: fmt.Sprintf("%s pulou para o caminho %d", name, pathID+1),
	}
}

func NewMovementEvent(round int, player, name string, from, to int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventMovement,
		Details: fmt.Sprintf("%s: casa %d → %d", name, from, to),
	}
}

func NewScoreEvent(round int, player, name string, score int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventScore,
		Details: fmt.Sprintf("%s fez %d pontos", name, score),
	}
}

func NewRoundResultEvent(round int, winnerNames []string) GameEvent {
	details := "Rodada empatada, ninguém venceu."
	if len(winnerNames) > 0 {
		details = fmt.Sprintf("Vencedor(es) da rodada: %s", strings.Join(winnerNames, ", "))
	}
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Type:    EventRoundResult,
		Details: details,
	}
}

func NewPassEvent(round int, player, name string, passes int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventPass,
		Details: fmt.Sprintf("%s passou o turno (%d)", name, passes),
	}
}

func NewLastCallEvent(round int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Type:    EventLastCall,
		Details: "Última chamada! Todos os jogadores passaram. Jogue uma carta ou passe para encerrar a rodada.",
	}
}

func NewHeartChangeEvent(round int, player, name string, oldHearts, newHearts int, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventHeartChange,
		Details: fmt.Sprintf("%s corações: %d → %d (%s)", name, oldHearts, newHearts, reason),
	}
}

func NewEliminatedEvent(round int, player, name, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventEliminated,
		Details: fmt.Sprintf("%s foi eliminado (%s)", name, reason),
	}
}

func NewStarGainedEvent(round int, player, name string, stars int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "resolution",
		Player:  player,
		Type:    EventStarGained,
		Details: fmt.Sprintf("%s coletou uma estrela (%d)", name, stars),
	}
}

func NewDeckEvent(kind string, resynthesized bool) GameEvent {
	if resynthesized {
		return GameEvent{
			Type:    EventDeckResynthesized,
			Card:    kind,
			Details: fmt.Sprintf("Baralho de %s e descarte vazios. Um novo baralho foi criado.", kind),
		}
	}
	return GameEvent{
		Type:    EventDeckReshuffle,
		Card:    kind,
		Details: fmt.Sprintf("Baralho de %s vazio. Reembaralhando o descarte.", kind),
	}
}

func NewCurseEvent(round int, player, casterName, targetName, card string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventCurse,
		Card:    card,
		Details: fmt.Sprintf("%s amaldiçoou a carta %s de %s com NECRO X", casterName, card, targetName),
	}
}

func NewAbilityEvent(round int, player, name, ability string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventAbility,
		Card:    ability,
		Details: fmt.Sprintf("%s usou a habilidade %s", name, ability),
	}
}

func NewDialogueEvent(round int, player, name, line string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventDialogue,
		Details: fmt.Sprintf("%s: \"%s\"", name, line),
	}
}

func NewAchievementEvent(id, title string) GameEvent {
	return GameEvent{
		Type:    EventAchievement,
		Card:    id,
		Details: fmt.Sprintf("Conquista desbloqueada: %s", title),
	}
}

func NewIllegalActionEvent(round int, player, details string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "playing",
		Player:  player,
		Type:    EventIllegalAction,
		Details: details,
	}
}

func NewGameOverEvent(round int, won bool, reason string) GameEvent {
	outcome := "Derrota"
	if won {
		outcome = "Vitória"
	}
	return GameEvent{
		Round:   round,
		Phase:   "game_over",
		Type:    EventGameOver,
		Details: fmt.Sprintf("Fim de jogo: %s (%s)", outcome, reason),
	}
}

func NewErrorEvent(round int, phase, player string, err error) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Player:  player,
		Type:    EventError,
		Details: fmt.Sprintf("erro: %v", err),
	}
}

func NewInfoEvent(round int, phase, player, details string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Player:  player,
		Type:    EventInfo,
		Details: details,
	}
}
