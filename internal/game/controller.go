package game

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/Xael/reversusfinal/internal/log"
)

var (
	ErrIllegalAction   = errors.New("illegal action")
	ErrNoPendingPrompt = errors.New("no pending prompt")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrGameOver        = errors.New("game over")
)

// PlayerController is implemented by every human seat surface: terminal,
// network, browser and MCP. AI seats are driven by the engine itself.
type PlayerController interface {
	// ChooseAction presents the legal top-level actions of a turn.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// Choose answers a typed prompt with an option index.
	Choose(ctx context.Context, state *GameState, prompt Prompt) (int, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// Renderer observes the state after every mutation. It must not modify it.
type Renderer interface {
	Render(state *GameState)
}

// Announcer plays sounds and banner announcements. Calls are fire-and-forget.
type Announcer interface {
	Announce(text, category string, d time.Duration)
	PlaySound(kind string)
}

// AchievementSink receives unlock grants. Grant reports whether the id was
// newly unlocked.
type AchievementSink interface {
	Grant(id string) bool
	Has(id string) bool
	Title(id string) string
}

type nopRenderer struct{}

func (nopRenderer) Render(*GameState) {}

type nopAnnouncer struct{}

func (nopAnnouncer) Announce(string, string, time.Duration) {}
func (nopAnnouncer) PlaySound(string)                       {}

// MemoryAchievements is an in-process AchievementSink.
type MemoryAchievements struct {
	mu       sync.Mutex
	unlocked map[string]bool
}

func NewMemoryAchievements(ids ...string) *MemoryAchievements {
	a := &MemoryAchievements{unlocked: make(map[string]bool)}
	for _, id := range ids {
		a.unlocked[id] = true
	}
	return a
}

func (a *MemoryAchievements) Grant(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unlocked[id] {
		return false
	}
	a.unlocked[id] = true
	return true
}

func (a *MemoryAchievements) Has(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unlocked[id]
}

func (a *MemoryAchievements) Title(id string) string { return id }

// Gate is a PlayerController that parks each decision until an outside
// caller answers it through Submit. Web and MCP seats use it.
type Gate struct {
	mu       sync.Mutex
	current  *Prompt
	answers  chan int
	prompts  chan Prompt
	OnEvent  func(log.GameEvent)
	OnPrompt func(Prompt)
}

func NewGate() *Gate {
	return &Gate{
		answers: make(chan int, 1),
		prompts: make(chan Prompt, 1),
	}
}

// Prompts delivers each decision as it opens.
func (g *Gate) Prompts() <-chan Prompt { return g.prompts }

// Pending returns the open decision, if any.
func (g *Gate) Pending() *Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	p := *g.current
	return &p
}

// Submit answers the open decision.
func (g *Gate) Submit(choice int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return ErrNoPendingPrompt
	}
	if choice < 0 || choice >= len(g.current.Options) {
		return ErrInvalidChoice
	}
	g.current = nil
	g.answers <- choice
	return nil
}

func (g *Gate) wait(ctx context.Context, prompt Prompt) (int, error) {
	g.mu.Lock()
	g.current = &prompt
	g.mu.Unlock()

	// Drop a stale undelivered prompt so the newest one is always readable.
	select {
	case <-g.prompts:
	default:
	}
	g.prompts <- prompt
	if g.OnPrompt != nil {
		g.OnPrompt(prompt)
	}

	select {
	case choice := <-g.answers:
		return choice, nil
	case <-ctx.Done():
		g.mu.Lock()
		g.current = nil
		// Submit sends under mu, so an answer that raced the timeout is
		// already buffered here.
		select {
		case <-g.answers:
		default:
		}
		g.mu.Unlock()
		return -1, ctx.Err()
	}
}

// ActionPrompt renders a turn's actions as a prompt.
func ActionPrompt(player string, actions []Action) Prompt {
	p := Prompt{Kind: PromptAction, Player: player, Text: "Escolha uma ação"}
	for _, a := range actions {
		opt := Option{Label: a.String()}
		if a.Type == ActionPlayCard {
			opt.Value = strconv.Itoa(a.CardID)
		}
		p.Options = append(p.Options, opt)
	}
	return p
}

func (g *Gate) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	idx, err := g.wait(ctx, ActionPrompt(state.Current, actions))
	if err != nil {
		return Action{}, err
	}
	return actions[idx], nil
}

func (g *Gate) Choose(ctx context.Context, state *GameState, prompt Prompt) (int, error) {
	return g.wait(ctx, prompt)
}

func (g *Gate) Notify(ctx context.Context, event log.GameEvent) error {
	if g.OnEvent != nil {
		g.OnEvent(event)
	}
	return nil
}
