package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/log"
)

// SaveFunc stores the running match on request of the seat. It runs on the
// engine goroutine and returns a line to show the player.
type SaveFunc func(ctx context.Context) (string, error)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player string
	mu     sync.Mutex

	// OnSave handles a "save" message sent in place of an answer.
	OnSave SaveFunc
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player string) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ask sends msg and reads answers until one is a valid index below n.
// Save requests (only at a turn's action choice) and bad indexes are
// answered in place. Must be called with mu held.
func (nc *NetworkController) ask(ctx context.Context, msg ServerMessage, n int) (int, error) {
	if err := nc.send(msg); err != nil {
		return -1, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	for {
		resp, err := nc.recv()
		if err != nil {
			return -1, fmt.Errorf("recv %s: %w", msg.Type, err)
		}
		switch {
		case resp.Type == "save" && msg.Type == "choose_action":
			nc.handleSave(ctx)
		case resp.Type == "save":
			if err := nc.send(ServerMessage{Type: "error", Error: "só é possível salvar no início da jogada"}); err != nil {
				return -1, err
			}
		case resp.Index >= 0 && resp.Index < n:
			return resp.Index, nil
		default:
			if err := nc.send(ServerMessage{Type: "error", Error: fmt.Sprintf("escolha entre 1 e %d", n)}); err != nil {
				return -1, err
			}
		}
		if err := nc.send(msg); err != nil {
			return -1, fmt.Errorf("send %s: %w", msg.Type, err)
		}
	}
}

func (nc *NetworkController) handleSave(ctx context.Context) {
	if nc.OnSave == nil {
		nc.send(ServerMessage{Type: "error", Error: "salvamento indisponível"})
		return
	}
	text, err := nc.OnSave(ctx)
	if err != nil {
		nc.send(ServerMessage{Type: "error", Error: err.Error()})
		return
	}
	nc.send(ServerMessage{Type: "notify", Event: &EventView{Type: "saved", Details: text}})
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: ActionViews(actions),
		State:   BuildStateView(state, nc.player),
	}
	idx, err := nc.ask(ctx, msg, len(actions))
	if err != nil {
		return game.Action{}, err
	}
	return actions[idx], nil
}

// Choose implements game.PlayerController.
func (nc *NetworkController) Choose(ctx context.Context, state *game.GameState, prompt game.Prompt) (int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:   "choose",
		Prompt: NewPromptView(prompt),
		State:  BuildStateView(state, nc.player),
	}
	return nc.ask(ctx, msg, len(prompt.Options))
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(out game.Outcome) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Won: out.Won, Winners: out.Winners, Result: out.Reason})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	ev := NewEventView(event)
	return nc.send(ServerMessage{Type: "notify", Event: &ev})
}
