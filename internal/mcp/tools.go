package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/achievements"
	"github.com/Xael/reversusfinal/internal/game"
	"github.com/Xael/reversusfinal/internal/log"
	"github.com/Xael/reversusfinal/internal/store"
)

// Handler serves the game tools. It holds at most one session at a time
// (one per stdio process).
type Handler struct {
	Rules         *game.Rules
	Store         store.SaveStore // nil disables save_game and resume
	Profile       string
	Achievements  game.AchievementSink
	Logger        *zap.Logger
	PromptTimeout time.Duration

	mu      sync.Mutex
	session *GameSession
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, h *Handler) {
	s.AddTool(startGameTool(), h.handleStartGame)
	s.AddTool(chooseTool(), h.handleChoose)
	s.AddTool(getGameStateTool(), h.handleGetGameState)
	s.AddTool(saveGameTool(), h.handleSaveGame)
	s.AddTool(quitGameTool(), h.handleQuitGame)
	s.AddTool(achievementsTool(), h.handleAchievements)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a Reversus match. You play player-1; every other seat is the built-in AI. "+
			"Returns the initial state and the first pending decision."),
		mcp.WithString("mode", mcp.Description("Quick match mode: solo, duo or inversus"), mcp.Enum("solo", "duo", "inversus"), mcp.DefaultString("solo")),
		mcp.WithNumber("players", mcp.Description("Seats in a quick match (2-4, duo needs 4)")),
		mcp.WithString("battle", mcp.Description("Story battle id (e.g. contravox, versatrix, reversum, necroverso_king). Empty for a quick match")),
		mcp.WithNumber("seed", mcp.Description("RNG seed, 0 for random")),
		mcp.WithBoolean("resume", mcp.Description("Resume the saved story battle instead of starting a new match")),
	)
}

func chooseTool() mcp.Tool {
	return mcp.NewTool("choose",
		mcp.WithDescription("Answer the pending decision: a turn action or a follow-up prompt (target, category, path...)."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending options")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func saveGameTool() mcp.Tool {
	return mcp.NewTool("save_game",
		mcp.WithDescription("Save the running story battle. Only story battles can be saved, and only while choosing a turn action."),
	)
}

func quitGameTool() mcp.Tool {
	return mcp.NewTool("quit_game",
		mcp.WithDescription("Abandon the running match."),
	)
}

func achievementsTool() mcp.Tool {
	return mcp.NewTool("get_achievements",
		mcp.WithDescription("List every achievement and whether it is unlocked. Locked ones show only their hint."),
	)
}

// --- Tool handlers ---

func (h *Handler) current() *GameSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// clearIfOver drops a finished session. A finished story battle also
// drops its save.
func (h *Handler) clearIfOver(ctx context.Context, sess *GameSession, resp *ToolResponse) {
	if !resp.GameOver {
		return
	}
	h.mu.Lock()
	if h.session == sess {
		h.session = nil
	}
	h.mu.Unlock()
	if h.Store != nil && sess.match.State.Story {
		if err := h.Store.DeleteGame(ctx, h.profile()); err != nil {
			h.logger().Warn("delete finished save", zap.Error(err))
		}
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) profile() string {
	if h.Profile == "" {
		return "default"
	}
	return h.Profile
}

func (h *Handler) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.current() != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	cfg, err := game.ConfigFromNames(request.GetString("mode", "solo"), request.GetInt("players", 0), request.GetString("battle", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid setup: %v", err), nil
	}
	cfg.Rules = h.Rules
	cfg.Seed = uint64(request.GetInt("seed", 0))
	cfg.Logger = log.NewZapLogger(h.logger())
	cfg.Achievements = h.Achievements
	cfg.PromptTimeout = h.PromptTimeout

	var doc *game.SaveDocument
	if request.GetBool("resume", false) {
		if h.Store == nil {
			return mcp.NewToolResultError("Saving is disabled on this server."), nil
		}
		doc, err = store.LoadOrDiscard(ctx, h.Store, h.profile())
		if errors.Is(err, store.ErrNoSave) {
			return mcp.NewToolResultError("There is no saved game to resume."), nil
		}
		if err != nil {
			return mcp.NewToolResultErrorf("Failed to load save: %v", err), nil
		}
	}

	sess, err := NewGameSession(cfg, doc)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	h.mu.Lock()
	h.session = sess
	h.mu.Unlock()
	h.logger().Info("mcp match started", zap.String("match", sess.match.ID), zap.Bool("resumed", doc != nil))

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	h.clearIfOver(ctx, sess, resp)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleChoose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := h.current()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	pending := sess.gate.Pending()
	if pending == nil {
		return mcp.NewToolResultError("No pending decision. Use get_game_state to wait for one."), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Options) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Options)-1), nil
	}

	resp, err := sess.submit(ctx, index)
	if err != nil {
		return mcp.NewToolResultErrorf("Error submitting choice: %v", err), nil
	}
	h.clearIfOver(ctx, sess, resp)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := h.current()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	resp := sess.snapshot()
	h.clearIfOver(ctx, sess, resp)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleSaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := h.current()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	if h.Store == nil {
		return mcp.NewToolResultError("Saving is disabled on this server."), nil
	}
	if p := sess.gate.Pending(); p == nil || p.Kind != game.PromptAction {
		return mcp.NewToolResultError("Saving is only possible at the start of your turn, while choosing an action."), nil
	}

	doc, err := sess.match.Snapshot(game.StoryState{Node: sess.match.State.Battle.String()})
	if errors.Is(err, game.ErrNotStory) {
		return mcp.NewToolResultError("Only story battles can be saved."), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Snapshot failed: %v", err), nil
	}
	if err := h.Store.SaveGame(ctx, h.profile(), doc); err != nil {
		h.logger().Error("mcp save failed", zap.Error(err))
		return mcp.NewToolResultErrorf("Save failed: %v", err), nil
	}

	resp := sess.snapshot()
	resp.Saved = doc.ID
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (h *Handler) handleQuitGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	sess := h.session
	h.session = nil
	h.mu.Unlock()
	if sess == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	sess.Stop()
	return mcp.NewToolResultText(`{"quit": true}`), nil
}

func (h *Handler) handleAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sink interface{ Has(string) bool }
	if h.Achievements != nil {
		sink = h.Achievements
	}
	data, err := json.Marshal(achievements.List(sink))
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
