package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xael/reversusfinal/internal/achievements"
	"github.com/Xael/reversusfinal/internal/game"
	rnet "github.com/Xael/reversusfinal/internal/net"
	"github.com/Xael/reversusfinal/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Options configures the web server.
type Options struct {
	Rules   *game.Rules
	Game    *rnet.Server // runs in-process matches for /ws
	Store   store.SaveStore
	Profile string
	Tracker *achievements.Tracker
	Logger  *zap.Logger
	Seed    uint64
}

// Server is the Reversus web UI server.
type Server struct {
	opts   Options
	rooms  []game.Room
	router *gin.Engine
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	if opts.Rules == nil {
		opts.Rules = game.DefaultRules()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Game == nil {
		opts.Game = &rnet.Server{Rules: opts.Rules, Logger: opts.Logger, Store: opts.Store, Profile: opts.Profile}
	}
	if opts.Profile == "" {
		opts.Profile = "default"
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Server{
		opts:  opts,
		rooms: game.PvPRooms(rand.New(rand.NewPCG(seed, seed>>1))),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(staticFS))
	})
	r.StaticFS("/static", http.FS(staticFS))

	api := r.Group("/api")
	{
		api.GET("/rules", s.handleRules)
		api.GET("/rooms", s.handleRooms)
		api.POST("/rooms/:id/join", s.handleJoinRoom)
		api.GET("/achievements", s.handleAchievements)
		api.GET("/save", s.handleSaveMeta)
		api.DELETE("/save", s.handleDeleteSave)
	}

	r.GET("/ws", s.handleWebSocket)
	s.router = r
}

// requestLogger writes one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.opts.Logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return s.router.Run(addr)
}

type fieldView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Positive    bool   `json:"positive"`
}

type battleView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Mode    string `json:"mode"`
	Players int    `json:"players"`
}

type rulesView struct {
	BoardSize       int          `json:"boardSize"`
	WinningPosition int          `json:"winningPosition"`
	MaxValueCards   int          `json:"maxValueCards"`
	MaxEffectCards  int          `json:"maxEffectCards"`
	ValueDeckSize   int          `json:"valueDeckSize"`
	EffectDeckSize  int          `json:"effectDeckSize"`
	FieldEffects    []fieldView  `json:"fieldEffects"`
	Battles         []battleView `json:"battles"`
}

func (s *Server) handleRules(c *gin.Context) {
	rules := s.opts.Rules
	out := rulesView{
		BoardSize:       rules.BoardSize,
		WinningPosition: rules.WinningPosition,
		MaxValueCards:   rules.MaxValueCards,
		MaxEffectCards:  rules.MaxEffectCards,
		ValueDeckSize:   rules.ValueDeckSize(),
		EffectDeckSize:  rules.EffectDeckSize(),
	}
	for _, e := range rules.FieldEffects.Positive {
		out.FieldEffects = append(out.FieldEffects, fieldView{Name: e.Name.String(), Description: e.Description, Positive: true})
	}
	for _, e := range rules.FieldEffects.Negative {
		out.FieldEffects = append(out.FieldEffects, fieldView{Name: e.Name.String(), Description: e.Description})
	}
	for _, b := range rules.Battles {
		out.Battles = append(out.Battles, battleView{ID: b.ID.String(), Title: b.Title, Mode: b.Mode.String(), Players: len(b.Players)})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleRooms(c *gin.Context) {
	c.JSON(http.StatusOK, s.rooms)
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	for _, room := range s.rooms {
		if room.ID != id {
			continue
		}
		if !room.Unlock(body.Password) {
			c.JSON(http.StatusForbidden, gin.H{"error": "senha incorreta"})
			return
		}
		c.JSON(http.StatusOK, room)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
}

func (s *Server) handleAchievements(c *gin.Context) {
	var sink interface{ Has(string) bool }
	unlocks := achievements.Unlocks{}
	if s.opts.Tracker != nil {
		sink = s.opts.Tracker
		unlocks = s.opts.Tracker.Unlocks()
	}
	c.JSON(http.StatusOK, gin.H{
		"achievements": achievements.List(sink),
		"unlocks":      unlocks,
	})
}

func (s *Server) handleSaveMeta(c *gin.Context) {
	if s.opts.Store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": store.ErrNoSave.Error()})
		return
	}
	meta, err := s.opts.Store.Meta(c.Request.Context(), s.opts.Profile)
	if errors.Is(err, store.ErrNoSave) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.opts.Logger.Error("read save meta", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read save"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleDeleteSave(c *gin.Context) {
	if s.opts.Store == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if err := s.opts.Store.DeleteGame(c.Request.Context(), s.opts.Profile); err != nil {
		s.opts.Logger.Error("delete save", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete save"})
		return
	}
	c.Status(http.StatusNoContent)
}

// connectMessage opens a play stream. With Addr set the stream is proxied
// to a TCP game server; otherwise the match runs in this process.
type connectMessage struct {
	Type    string `json:"type"`
	Addr    string `json:"addr,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Players int    `json:"players,omitempty"`
	Battle  string `json:"battle,omitempty"`
	Seed    uint64 `json:"seed,omitempty"`
	Resume  bool   `json:"resume,omitempty"`
}

func (m connectMessage) join() rnet.ClientMessage {
	return rnet.ClientMessage{Type: "join", Mode: m.Mode, Players: m.Players, Battle: m.Battle, Seed: m.Seed, Resume: m.Resume}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	wsConn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.opts.Logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Read initial connect message from browser
	var connectMsg connectMessage
	if err := wsjson.Read(ctx, wsConn, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	gameConn, err := s.openGame(ctx, connectMsg)
	if err != nil {
		wsjson.Write(ctx, wsConn, rnet.ServerMessage{Type: "error", Error: err.Error()})
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer gameConn.Close()

	done := make(chan struct{})

	// game → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(gameConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && ctx.Err() == nil {
					s.opts.Logger.Warn("game stream read", zap.Error(err))
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	// WebSocket → game (browser responses to server)
	go func() {
		defer cancel()
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := gameConn.Write(data); err != nil {
				return
			}
		}
	}()

	select {
	case <-done:
		wsConn.Close(websocket.StatusNormalClosure, "game ended")
	case <-ctx.Done():
	}
}

// openGame returns the client end of a game stream, already joined.
func (s *Server) openGame(ctx context.Context, msg connectMessage) (net.Conn, error) {
	join := msg.join()
	if msg.Addr != "" {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", msg.Addr)
		if err != nil {
			return nil, fmt.Errorf("could not connect to game server at %s: %w", msg.Addr, err)
		}
		if err := json.NewEncoder(conn).Encode(join); err != nil {
			conn.Close()
			return nil, fmt.Errorf("send join: %w", err)
		}
		return conn, nil
	}

	clientEnd, serverEnd := net.Pipe()
	go func() {
		defer serverEnd.Close()
		if _, err := s.opts.Game.Serve(ctx, serverEnd, join); err != nil && ctx.Err() == nil {
			s.opts.Logger.Warn("web match ended with error", zap.Error(err))
		}
	}()
	return clientEnd, nil
}
