package game

import "fmt"

// parseEnum maps a textual name back onto its enum value by scanning String().
func parseEnum[T interface {
	~int
	String() string
}](kind string, count int, s string) (T, error) {
	for i := 0; i < count; i++ {
		if T(i).String() == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// --- Enums ---

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseDrawingInitial
	PhasePlaying
	PhaseTargeting
	PhaseReversusTargeting
	PhasePulaCasting
	PhaseAwaitingInput
	PhasePaused
	PhaseResolution
	PhaseGameOver
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseDrawingInitial:
		return "drawing_initial"
	case PhasePlaying:
		return "playing"
	case PhaseTargeting:
		return "targeting"
	case PhaseReversusTargeting:
		return "reversus_targeting"
	case PhasePulaCasting:
		return "pula_casting"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhasePaused:
		return "paused"
	case PhaseResolution:
		return "resolution"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := parseEnum[Phase]("phase", int(phaseCount), string(b))
	*p = v
	return err
}

type CardKind int

const (
	CardValue CardKind = iota
	CardEffect
)

func (k CardKind) String() string {
	if k == CardEffect {
		return "effect"
	}
	return "value"
}

func (k CardKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *CardKind) UnmarshalText(b []byte) error {
	v, err := parseEnum[CardKind]("card kind", 2, string(b))
	*k = v
	return err
}

// EffectKind is the closed set of effect-card names.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectMais
	EffectMenos
	EffectSobe
	EffectDesce
	EffectPula
	EffectReversus
	EffectReversusTotal
	EffectNecroX
	EffectNecroXInvertido
	EffectVersatrix
	EffectNecroXCurse
	effectCount
)

var effectNames = [...]string{
	EffectNone:            "",
	EffectMais:            "Mais",
	EffectMenos:           "Menos",
	EffectSobe:            "Sobe",
	EffectDesce:           "Desce",
	EffectPula:            "Pula",
	EffectReversus:        "Reversus",
	EffectReversusTotal:   "Reversus Total",
	EffectNecroX:          "NECRO X",
	EffectNecroXInvertido: "NECRO X Invertido",
	EffectVersatrix:       "Carta da Versatrix",
	EffectNecroXCurse:     "NECRO_X_CURSE",
}

func (e EffectKind) String() string {
	if e < 0 || e >= effectCount {
		return "unknown"
	}
	return effectNames[e]
}

func (e EffectKind) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EffectKind) UnmarshalText(b []byte) error {
	v, err := parseEnum[EffectKind]("effect", int(effectCount), string(b))
	*e = v
	return err
}

// Category reports which effect slot this effect resolves into.
func (e EffectKind) Category() Category {
	switch e {
	case EffectMais, EffectMenos, EffectNecroX, EffectNecroXInvertido:
		return CategoryScore
	case EffectSobe, EffectDesce, EffectPula:
		return CategoryMovement
	default:
		return CategoryNone
	}
}

// Inverse returns the opposite effect, or EffectNone when none is defined.
// Pula has no inverse.
func (e EffectKind) Inverse() EffectKind {
	switch e {
	case EffectMais:
		return EffectMenos
	case EffectMenos:
		return EffectMais
	case EffectSobe:
		return EffectDesce
	case EffectDesce:
		return EffectSobe
	case EffectNecroX:
		return EffectNecroXInvertido
	case EffectNecroXInvertido:
		return EffectNecroX
	default:
		return EffectNone
	}
}

// IsNegative reports whether the effect is suppressed by immunity.
func (e EffectKind) IsNegative() bool {
	return e == EffectMenos || e == EffectDesce
}

type Category int

const (
	CategoryNone Category = iota
	CategoryScore
	CategoryMovement
)

func (c Category) String() string {
	switch c {
	case CategoryScore:
		return "score"
	case CategoryMovement:
		return "movement"
	default:
		return ""
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	v, err := parseEnum[Category]("category", 3, string(b))
	*c = v
	return err
}

// FieldEffect names a board-space effect.
type FieldEffect int

const (
	FieldNone FieldEffect = iota
	FieldRestoMaior
	FieldCartaMenor
	FieldJogoAberto
	FieldImunidade
	FieldDesafio
	FieldImpulso
	FieldTrocaJusta
	FieldReversusTotal
	FieldRestoMenor
	FieldCartaMaior
	FieldSuperExposto
	FieldCastigo
	FieldParada
	FieldTrocaInjusta
	FieldTotalRevesusNada
	FieldEstrelaSubente
	FieldEstrelaCadente
	FieldRouboDaEstrela
	FieldDoandoUmaEstrela
	fieldCount
)

var fieldNames = [...]string{
	FieldNone:             "",
	FieldRestoMaior:       "Resto Maior",
	FieldCartaMenor:       "Carta Menor",
	FieldJogoAberto:       "Jogo Aberto",
	FieldImunidade:        "Imunidade",
	FieldDesafio:          "Desafio",
	FieldImpulso:          "Impulso",
	FieldTrocaJusta:       "Troca Justa",
	FieldReversusTotal:    "Reversus Total",
	FieldRestoMenor:       "Resto Menor",
	FieldCartaMaior:       "Carta Maior",
	FieldSuperExposto:     "Super Exposto",
	FieldCastigo:          "Castigo",
	FieldParada:           "Parada",
	FieldTrocaInjusta:     "Troca Injusta",
	FieldTotalRevesusNada: "Total Revesus Nada!",
	FieldEstrelaSubente:   "Estrela Subente",
	FieldEstrelaCadente:   "Estrela Cadente",
	FieldRouboDaEstrela:   "Roubo da Estrela",
	FieldDoandoUmaEstrela: "Doando uma Estrela",
}

func (f FieldEffect) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

func (f FieldEffect) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FieldEffect) UnmarshalText(b []byte) error {
	v, err := parseEnum[FieldEffect]("field effect", int(fieldCount), string(b))
	*f = v
	return err
}

type SpaceColor int

const (
	ColorWhite SpaceColor = iota
	ColorBlue
	ColorRed
	ColorYellow
	ColorBlack
	ColorStar
	ColorGreen
	colorCount
)

func (c SpaceColor) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorBlack:
		return "black"
	case ColorStar:
		return "star"
	case ColorGreen:
		return "green"
	default:
		return "unknown"
	}
}

func (c SpaceColor) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *SpaceColor) UnmarshalText(b []byte) error {
	v, err := parseEnum[SpaceColor]("color", int(colorCount), string(b))
	*c = v
	return err
}

type Status int

const (
	StatusNeutral Status = iota
	StatusWinning
	StatusLosing
)

func (s Status) String() string {
	switch s {
	case StatusWinning:
		return "winning"
	case StatusLosing:
		return "losing"
	default:
		return "neutral"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := parseEnum[Status]("status", 3, string(b))
	*s = v
	return err
}

// AIType selects an opponent personality.
type AIType int

const (
	AIDefault AIType = iota
	AINecroversoTutorial
	AIContravox
	AIVersatrix
	AIReversum
	AINecroversoFinal
	AIInversus
	AINarrador
	AIXael
	aiTypeCount
)

func (a AIType) String() string {
	switch a {
	case AIDefault:
		return "default"
	case AINecroversoTutorial:
		return "necroverso_tutorial"
	case AIContravox:
		return "contravox"
	case AIVersatrix:
		return "versatrix"
	case AIReversum:
		return "reversum"
	case AINecroversoFinal:
		return "necroverso_final"
	case AIInversus:
		return "inversus"
	case AINarrador:
		return "narrador"
	case AIXael:
		return "xael"
	default:
		return "unknown"
	}
}

func (a AIType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AIType) UnmarshalText(b []byte) error {
	v, err := parseEnum[AIType]("ai type", int(aiTypeCount), string(b))
	*a = v
	return err
}

type Mode int

const (
	ModeSolo Mode = iota
	ModeDuo
	ModeInversus
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeSolo:
		return "solo"
	case ModeDuo:
		return "duo"
	case ModeInversus:
		return "inversus"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := parseEnum[Mode]("mode", int(modeCount), string(b))
	*m = v
	return err
}

// Battle identifies a story battle preset. BattleNone is a quick match.
type Battle int

const (
	BattleNone Battle = iota
	BattleTutorial
	BattleContravox
	BattleVersatrix
	BattleReversum
	BattleNecroversoKing
	BattleNecroversoFinal
	BattleXaelChallenge
	BattleNarrador
	BattleInversus
	battleCount
)

func (b Battle) String() string {
	switch b {
	case BattleNone:
		return ""
	case BattleTutorial:
		return "tutorial_necroverso"
	case BattleContravox:
		return "contravox"
	case BattleVersatrix:
		return "versatrix"
	case BattleReversum:
		return "reversum"
	case BattleNecroversoKing:
		return "necroverso_king"
	case BattleNecroversoFinal:
		return "necroverso_final"
	case BattleXaelChallenge:
		return "xael_challenge"
	case BattleNarrador:
		return "narrador"
	case BattleInversus:
		return "inversus"
	default:
		return "unknown"
	}
}

func (b Battle) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Battle) UnmarshalText(text []byte) error {
	v, err := parseEnum[Battle]("battle", int(battleCount), string(text))
	*b = v
	return err
}

// ParseBattle resolves a battle name; the empty string is a quick match.
func ParseBattle(s string) (Battle, error) {
	return parseEnum[Battle]("battle", int(battleCount), s)
}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	return parseEnum[Mode]("mode", int(modeCount), s)
}

// --- Cards ---

// Card is a value or effect card. Lock, reversal tag and cooldown are the
// only fields mutated after creation.
type Card struct {
	ID               int        `json:"id"`
	Kind             CardKind   `json:"kind"`
	Value            int        `json:"value,omitempty"`
	Effect           EffectKind `json:"effect,omitempty"`
	Locked           bool       `json:"locked,omitempty"`
	LockedEffect     EffectKind `json:"lockedEffect,omitempty"`
	ReversedCategory Category   `json:"reversedCategory,omitempty"`
	Cooldown         int        `json:"cooldown,omitempty"`
	Blocked          bool       `json:"blocked,omitempty"`
	Ephemeral        bool       `json:"ephemeral,omitempty"` // ability and curse cards never enter a pile
}

func (c *Card) String() string {
	if c == nil {
		return "(none)"
	}
	return c.Name()
}

// Name returns the display name: the value for value cards, the effect name otherwise.
func (c *Card) Name() string {
	if c.Kind == CardValue {
		return fmt.Sprint(c.Value)
	}
	return c.Effect.String()
}

// EffectiveEffect is the effect a card resolves as: its locked effect if locked.
func (c *Card) EffectiveEffect() EffectKind {
	if c.Locked {
		return c.LockedEffect
	}
	return c.Effect
}

// SlotCategory reports which effect slot a card in a play zone occupies.
func (c *Card) SlotCategory() Category {
	if c.Kind != CardEffect {
		return CategoryNone
	}
	if c.Locked {
		return c.LockedEffect.Category()
	}
	if c.Effect == EffectReversus {
		return c.ReversedCategory
	}
	return c.Effect.Category()
}

// --- Prompts ---

// PromptKind enumerates the decisions a human seat can be asked for.
type PromptKind int

const (
	PromptAction PromptKind = iota
	PromptTarget
	PromptReversusCategory
	PromptReversusTotalMode
	PromptLockEffect
	PromptPulaPath
	PromptFieldTarget
	PromptAcknowledge
)

func (k PromptKind) String() string {
	switch k {
	case PromptAction:
		return "action"
	case PromptTarget:
		return "target_player"
	case PromptReversusCategory:
		return "reversus_category"
	case PromptReversusTotalMode:
		return "reversus_total_mode"
	case PromptLockEffect:
		return "lock_effect"
	case PromptPulaPath:
		return "pula_path"
	case PromptFieldTarget:
		return "field_target"
	case PromptAcknowledge:
		return "acknowledge"
	default:
		return "unknown"
	}
}

func (k PromptKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PromptKind) UnmarshalText(b []byte) error {
	v, err := parseEnum[PromptKind]("prompt kind", int(PromptAcknowledge)+1, string(b))
	*k = v
	return err
}

// Option is one selectable answer to a prompt. Value carries a machine id
// (player id, path id, category, card id) and may be empty.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// Prompt is the typed suspension point a human decision waits on.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Player  string     `json:"player"`
	Text    string     `json:"text"`
	Options []Option   `json:"options"`
}

// CancelLabel marks the option that aborts an in-progress play.
const CancelLabel = "Cancelar"

// --- Action types ---

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionStarPower
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayCard:
		return "Play Card"
	case ActionStarPower:
		return "Star Power"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

// Action is a top-level choice on a human turn.
type Action struct {
	Type   ActionType
	CardID int
	Desc   string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}
