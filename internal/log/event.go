package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventRoundStart
	EventTurnStart
	EventInitialDraw
	EventCardPlayed
	EventEffectApplied
	EventEffectInverted
	EventEffectReversed
	EventFizzle
	EventImmune
	EventReversusTotal
	EventEffectLocked
	EventFieldEffect
	EventPathChange
	EventMovement
	EventScore
	EventRoundResult
	EventPass
	EventLastCall
	EventHeartChange
	EventEliminated
	EventStarGained
	EventDeckReshuffle
	EventDeckResynthesized
	EventCurse
	EventAbility
	EventDialogue
	EventAchievement
	EventIllegalAction
	EventGameOver
	EventError
	EventInfo
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventRoundStart:
		return "RoundStart"
	case EventTurnStart:
		return "TurnStart"
	case EventInitialDraw:
		return "InitialDraw"
	case EventCardPlayed:
		return "CardPlayed"
	case EventEffectApplied:
		return "EffectApplied"
	case EventEffectInverted:
		return "EffectInverted"
	case EventEffectReversed:
		return "EffectReversed"
	case EventFizzle:
		return "Fizzle"
	case EventImmune:
		return "Immune"
	case EventReversusTotal:
		return "ReversusTotal"
	case EventEffectLocked:
		return "EffectLocked"
	case EventFieldEffect:
		return "FieldEffect"
	case EventPathChange:
		return "PathChange"
	case EventMovement:
		return "Movement"
	case EventScore:
		return "Score"
	case EventRoundResult:
		return "RoundResult"
	case EventPass:
		return "Pass"
	case EventLastCall:
		return "LastCall"
	case EventHeartChange:
		return "HeartChange"
	case EventEliminated:
		return "Eliminated"
	case EventStarGained:
		return "StarGained"
	case EventDeckReshuffle:
		return "DeckReshuffle"
	case EventDeckResynthesized:
		return "DeckResynthesized"
	case EventCurse:
		return "Curse"
	case EventAbility:
		return "Ability"
	case EventDialogue:
		return "Dialogue"
	case EventAchievement:
		return "Achievement"
	case EventIllegalAction:
		return "IllegalAction"
	case EventGameOver:
		return "GameOver"
	case EventError:
		return "Error"
	case EventInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // which round (1-based)
	Phase   string    // match phase when the event fired
	Player  string    // acting player id ("player-1".."player-4"), empty for global events
	Type    EventType // event type
	Card    string    // card or effect name (if applicable)
	Details string    // human-readable detail string
}
