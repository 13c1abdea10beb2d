// Package server hosts matches for remote bots. Clients connect over a
// websocket, join a lobby, and once enough seats fill the server deals a
// match and proxies every engine callback to them.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/kittenforbots/internal/game"
	"github.com/lox/kittenforbots/internal/protocol"
)

// Config holds server configuration
type Config struct {
	Addr            string
	PlayersPerMatch int
	Game            game.Config
	Logger          *log.Logger
	Clock           quartz.Clock
}

type seat struct {
	name string
	conn *Connection
}

// Server accepts remote bot connections and runs matches between them
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu    sync.Mutex
	lobby []*seat
}

// NewServer creates a new match server
func NewServer(cfg Config) *Server {
	if cfg.PlayersPerMatch < 2 {
		cfg.PlayersPerMatch = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Game.Timeout <= 0 {
		cfg.Game.Timeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: cfg.Logger.WithPrefix("server"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler returns the HTTP handler serving the websocket and health
// endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves websocket connections until the listener fails or Stop is
// called
func (s *Server) Start() error {
	s.logger.Info("Starting match server", "addr", s.cfg.Addr, "players_per_match", s.cfg.PlayersPerMatch)

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}
	go func() {
		<-s.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and drops any waiting lobby seats
func (s *Server) Stop() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.lobby {
		_ = st.conn.Close()
	}
	s.lobby = nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrade failed", "error", err)
		return
	}

	// The first message must be a join naming the player
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		_ = ws.Close()
		return
	}
	_ = ws.SetReadDeadline(time.Time{})

	var join protocol.Join
	if err := protocol.Unmarshal(data, &join); err != nil || join.Type != protocol.TypeJoin || join.Name == "" {
		s.logger.Warn("Rejecting connection without a valid join")
		_ = ws.WriteJSON(&protocol.Error{Type: protocol.TypeError, Message: "first message must be a join with a name"})
		_ = ws.Close()
		return
	}

	conn := NewConnection(ws, s.logger)
	if ready := s.admit(join.Name, conn); ready != nil {
		go s.runMatch(ready)
	}
}

// admit seats a player in the lobby, returning the full table once enough
// players have joined
func (s *Server) admit(name string, conn *Connection) []*seat {
	s.mu.Lock()
	for _, st := range s.lobby {
		if st.name == name {
			s.mu.Unlock()
			conn.Start()
			_ = conn.Send(&protocol.Error{Type: protocol.TypeError, Message: "name already taken"})
			_ = conn.CloseAfterFlush()
			return nil
		}
	}

	conn.Start()
	s.lobby = append(s.lobby, &seat{name: name, conn: conn})
	s.logger.Info("Player joined lobby", "player", name, "seated", len(s.lobby), "needed", s.cfg.PlayersPerMatch)

	if len(s.lobby) < s.cfg.PlayersPerMatch {
		s.mu.Unlock()
		return nil
	}
	table := s.lobby
	s.lobby = nil
	s.mu.Unlock()
	return table
}

// runMatch plays one match between the seated players and reports the
// result to each before disconnecting them
func (s *Server) runMatch(table []*seat) {
	cfg := s.cfg.Game
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := s.logger.With("seed", cfg.Seed)
	eng := game.New(cfg, logger, game.WithClock(s.cfg.Clock))

	for _, st := range table {
		bot := NewRemoteBot(st.name, st.conn, logger, cfg.Timeout, s.cfg.Clock)
		if err := eng.Register(bot); err != nil {
			logger.Error("Failed to register remote bot", "player", st.name, "error", err)
			_ = st.conn.Send(&protocol.Error{Type: protocol.TypeError, Message: err.Error()})
		}
	}

	result, err := eng.Run()
	if err != nil {
		logger.Error("Match failed", "error", err)
		for _, st := range table {
			_ = st.conn.Send(&protocol.Error{Type: protocol.TypeError, Message: err.Error()})
			_ = st.conn.CloseAfterFlush()
		}
		return
	}

	logger.Info("Match finished", "winner", result.Winner, "turns", result.Turns)
	for _, st := range table {
		_ = st.conn.Send(&protocol.MatchResult{
			Type:       protocol.TypeMatchResult,
			Winner:     result.Winner,
			Placements: result.Placements,
			Turns:      result.Turns,
		})
		_ = st.conn.CloseAfterFlush()
	}
}
