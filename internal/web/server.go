package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"

	rcnet "github.com/peterkuimelis/rowclash/internal/net"
	"github.com/peterkuimelis/rowclash/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Browser messages are limited so a runaway client cannot flood the game
// server.
const (
	DefaultMessageRate  = rate.Limit(10)
	DefaultMessageBurst = 20
)

// MatchStore is the read side of the match history.
type MatchStore interface {
	ListMatches(ctx context.Context, limit int) ([]store.MatchRecord, error)
	GetMatch(ctx context.Context, id string) (store.MatchRecord, error)
}

// Server is the rowclash web UI server.
type Server struct {
	decksFile string
	matches   MatchStore // nil disables /api/matches
	logger    *slog.Logger
	mux       *http.ServeMux

	MessageRate  rate.Limit
	MessageBurst int
}

// NewServer creates a new web server. matches may be nil.
func NewServer(decksFile string, matches MatchStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		decksFile:    decksFile,
		matches:      matches,
		logger:       logger,
		mux:          http.NewServeMux(),
		MessageRate:  DefaultMessageRate,
		MessageBurst: DefaultMessageBurst,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/matches", s.handleMatches)
	s.mux.HandleFunc("GET /api/matches/{id}", s.handleMatch)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, cardCatalog())
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := loadDecks(s.decksFile)
	if err != nil {
		s.logger.Error("load decks", "file", s.decksFile, "error", err)
		http.Error(w, "could not load decks file", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, decks)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.matches == nil {
		http.Error(w, "match history is disabled", http.StatusNotFound)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	records, err := s.matches.ListMatches(r.Context(), limit)
	if err != nil {
		s.logger.Error("list matches", "error", err)
		http.Error(w, "could not list matches", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.MatchRecord{}
	}
	s.writeJSON(w, records)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if s.matches == nil {
		http.Error(w, "match history is disabled", http.StatusNotFound)
		return
	}
	rec, err := s.matches.GetMatch(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("get match", "id", r.PathValue("id"), "error", err)
		http.Error(w, "could not load match", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rec)
}

// connectMessage is the first message a browser sends on /ws.
type connectMessage struct {
	Type       string `json:"type"`
	Addr       string `json:"addr"`
	DeckNumber int    `json:"deck_number"`
	Name       string `json:"name"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", "error", err)
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Warn("websocket read connect", "error", err)
		return
	}

	var connectMsg connectMessage
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	dialer := net.Dialer{Timeout: 5 * time.Second}
	tcpConn, err := dialer.DialContext(ctx, "tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	log := s.logger.With("addr", connectMsg.Addr, "deck", connectMsg.DeckNumber)
	log.Info("browser joined game")

	// Send join message over TCP
	joinMsg, _ := json.Marshal(rcnet.ClientMessage{
		Type:       rcnet.MsgJoin,
		DeckNumber: connectMsg.DeckNumber,
		Name:       connectMsg.Name,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Warn("tcp write join", "error", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					log.Warn("tcp read", "error", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Warn("websocket write", "error", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	limiter := rate.NewLimiter(s.MessageRate, s.MessageBurst)
	go func() {
		defer cancel()
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Warn("tcp write", "error", err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Browser went away; unblock the TCP reader
		tcpConn.Close()
		<-done
	}
	log.Info("browser left game")
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server and shuts it down when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
