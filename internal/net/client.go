package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient wraps an established connection. Answers are read from in and
// the board is drawn to out.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the match setup, and runs the REPL.
func Connect(ctx context.Context, addr string, join ClientMessage, in io.Reader, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	join.Type = "join"
	if err := json.NewEncoder(conn).Encode(join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Fprintln(out, "Conectado! Aguardando o início da partida...")
	return NewClient(conn, in, out).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "error":
			fmt.Fprintf(c.out, "! %s\n", msg.Error)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			reply, err := c.readChoice(len(msg.Actions), true)
			if err != nil {
				return err
			}
			reply.Type = orDefault(reply.Type, "action")
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "choose":
			c.renderPrompt(msg.Prompt)
			n := 0
			if msg.Prompt != nil {
				n = len(msg.Prompt.Options)
			}
			reply, err := c.readChoice(n, false)
			if err != nil {
				return err
			}
			reply.Type = "choice"
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send choice: %w", err)
			}

		case "game_over":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			if msg.Won {
				fmt.Fprintln(c.out, "          VITÓRIA")
			} else {
				fmt.Fprintln(c.out, "          FIM DE JOGO")
			}
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil || ev.Details == "" {
		return
	}
	phase := ev.Phase
	for len(phase) < 12 {
		phase += " "
	}
	fmt.Fprintf(c.out, "R%-2d %s| %s\n", ev.Round, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	header := fmt.Sprintf("Rodada %d | %s", sv.Round, sv.Mode)
	if sv.Battle != "" {
		header += " | " + sv.Battle
	}
	if sv.ReversusTotal {
		header += " | REVERSUS TOTAL"
	}
	fmt.Fprintf(w, "║  %s\n", header)
	if sv.TeamAHearts > 0 || sv.TeamBHearts > 0 {
		fmt.Fprintf(w, "║  Corações: equipe A %d, equipe B %d\n", sv.TeamAHearts, sv.TeamBHearts)
	}
	for _, fe := range sv.FieldEffects {
		fmt.Fprintf(w, "║  Campo: %s (%s)\n", fe.Name, fe.Player)
	}
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	for _, p := range sv.Players {
		marker := "  "
		if p.ID == sv.Current {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%-12s casa %2d  pontos %3d  %s", marker, p.Name, p.Position, p.LiveScore, p.Status)
		if p.ScoreEffect != "" || p.MovementEffect != "" {
			line += fmt.Sprintf("  [%s/%s]", dash(p.ScoreEffect), dash(p.MovementEffect))
		}
		if p.MaxHearts > 0 {
			line += fmt.Sprintf("  ♥%d", p.Hearts)
		}
		if p.Stars > 0 {
			line += fmt.Sprintf("  ★%d", p.Stars)
		}
		if p.Eliminated {
			line += "  (eliminado)"
		}
		fmt.Fprintf(w, "║ %s\n", line)
		if len(p.PlayedValues) > 0 || len(p.PlayedEffects) > 0 {
			fmt.Fprintf(w, "║     jogadas: %v %s\n", p.PlayedValues, strings.Join(p.PlayedEffects, ", "))
		}
	}
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	for _, p := range sv.Players {
		if p.ID != sv.You {
			continue
		}
		switch {
		case p.Obscured:
			fmt.Fprintf(w, "\nMão: %s\n", strings.TrimSpace(strings.Repeat("[?] ", p.HandCount)))
		case len(p.Hand) > 0:
			fmt.Fprintf(w, "\nMão: ")
			for _, card := range p.Hand {
				fmt.Fprintf(w, "[%s] ", card.Name)
			}
			fmt.Fprintln(w)
		}
		if p.Resto > 0 {
			fmt.Fprintf(w, "Resto: %d\n", p.Resto)
		}
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nAções (s para salvar):")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) renderPrompt(p *PromptView) {
	if p == nil {
		return
	}
	fmt.Fprintf(c.out, "\n%s\n", p.Text)
	for _, o := range p.Options {
		fmt.Fprintf(c.out, "  %d) %s\n", o.Index+1, o.Label)
	}
}

// readChoice reads a 1-indexed answer. With allowSave, "s" asks the server
// to save instead.
func (c *Client) readChoice(count int, allowSave bool) (ClientMessage, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return ClientMessage{}, fmt.Errorf("read input: %w", err)
		}
		if allowSave && strings.EqualFold(line, "s") {
			return ClientMessage{Type: "save"}, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Digite um número entre 1 e %d\n", count)
			if err != nil {
				return ClientMessage{}, fmt.Errorf("read input: %w", err)
			}
			continue
		}
		return ClientMessage{Index: n - 1}, nil // convert to 0-indexed
	}
}
