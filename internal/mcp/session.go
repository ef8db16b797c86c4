package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/rowclash/internal/game"
	"github.com/peterkuimelis/rowclash/internal/log"
	rcnet "github.com/peterkuimelis/rowclash/internal/net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseMove DecisionType = "choose_move"
	DecisionGameOver   DecisionType = "game_over"
)

// Opponent kinds for a session.
const (
	OpponentHuman = "human"
	OpponentBot   = "bot"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type     DecisionType       `json:"type"`
	Seat     game.Seat          `json:"seat"`
	State    *rcnet.StateView   `json:"state"`
	Choices  []rcnet.ChoiceView `json:"choices,omitempty"`
	Targets  []rcnet.TargetView `json:"targets,omitempty"`
	Rejected string             `json:"rejected,omitempty"`
	Attempt  int                `json:"attempt,omitempty"`
	Result   *rcnet.ResultView  `json:"result,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID string            `json:"session_id"`
	Events    []rcnet.EventView `json:"events"`
	State     *rcnet.StateView  `json:"state,omitempty"`
	Pending   *PendingView      `json:"pending,omitempty"`
	GameOver  bool              `json:"game_over"`
	Result    *rcnet.ResultView `json:"result,omitempty"`
	Port      string            `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType       `json:"type"`
	ForPlayer string             `json:"for_player"`
	Choices   []rcnet.ChoiceView `json:"choices,omitempty"`
	Targets   []rcnet.TargetView `json:"targets,omitempty"`
	Rejected  string             `json:"rejected,omitempty"`
}

// SessionConfig describes a new MCP game.
type SessionConfig struct {
	DecksFile    string
	AgentDeck    int       // 1-indexed
	AgentSeat    game.Seat // top opens round 1
	Opponent     string    // OpponentHuman or OpponentBot
	OpponentDeck int       // bot deck; humans pick theirs when joining
	Port         string    // TCP port the human joins on
	Seed         int64

	// OnGameOver, if set, is called with the finished match.
	OnGameOver func(ctx context.Context, m *game.Match, res game.MatchResult) error
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	ID        string
	match     *game.Match
	agentCtrl *MCPController
	humanCtrl *rcnet.NetworkController // nil against the bot
	agentSeat game.Seat

	listener  net.Listener
	humanConn net.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []rcnet.EventView
	gameOver bool
	result   *rcnet.ResultView
}

// NewGameSession creates a new game session. Against a human it starts a TCP
// listener and waits for `rowclash-cli join`; against the bot it starts at once.
func NewGameSession(cfg SessionConfig) (*GameSession, error) {
	agentDeckName, agentCards, err := game.DeckByNumber(cfg.DecksFile, cfg.AgentDeck)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}

	sess := &GameSession{
		ID:        uuid.NewString(),
		agentSeat: cfg.AgentSeat,
		pendingCh: make(chan *PendingDecision, 1),
	}
	sess.agentCtrl = NewMCPController(cfg.AgentSeat, sess)

	var (
		oppCards []game.Card
		oppName  string
		oppCtrl  game.PlayerController
	)
	switch cfg.Opponent {
	case OpponentBot:
		deck := cfg.OpponentDeck
		if deck == 0 {
			deck = cfg.AgentDeck
		}
		oppName, oppCards, err = game.DeckByNumber(cfg.DecksFile, deck)
		if err != nil {
			return nil, fmt.Errorf("load bot deck: %w", err)
		}
		oppName = "Bot (" + oppName + ")"
		oppCtrl = game.NewRandomController(cfg.Seed + 1)

	case OpponentHuman, "":
		// Start TCP listener for human player
		ln, err := net.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			return nil, fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}

		// Accept one connection (blocks until human runs `rowclash-cli join`)
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			return nil, fmt.Errorf("accept: %w", err)
		}
		sess.listener = ln
		sess.humanConn = conn
		sess.humanCtrl = rcnet.NewNetworkController(conn, cfg.AgentSeat.Opponent())

		joinMsg, err := sess.humanCtrl.ReadJoin()
		if err != nil {
			sess.closeConn()
			return nil, err
		}
		humanDeck := joinMsg.DeckNumber
		if humanDeck == 0 {
			humanDeck = 2
		}
		_, oppCards, err = game.DeckByNumber(cfg.DecksFile, humanDeck)
		if err != nil {
			sess.closeConn()
			return nil, fmt.Errorf("load human deck: %w", err)
		}
		oppName = joinMsg.Name
		if oppName == "" {
			oppName = "Human"
		}
		oppCtrl = sess.humanCtrl

	default:
		return nil, fmt.Errorf("unknown opponent %q", cfg.Opponent)
	}

	// Assign decks and controllers to seats
	mc := game.MatchConfig{Logger: log.NewMemoryLogger(), Seed: cfg.Seed}
	agentName := "Agent (" + agentDeckName + ")"
	var top, bottom game.PlayerController
	if cfg.AgentSeat == game.Top {
		mc.TopName, mc.TopDeck, top = agentName, agentCards, sess.agentCtrl
		mc.BottomName, mc.BottomDeck, bottom = oppName, oppCards, oppCtrl
	} else {
		mc.TopName, mc.TopDeck, top = oppName, oppCards, oppCtrl
		mc.BottomName, mc.BottomDeck, bottom = agentName, agentCards, sess.agentCtrl
	}
	sess.match = game.NewMatch(mc, top, bottom)

	// Start the match in a goroutine
	go sess.run(cfg.OnGameOver)

	return sess, nil
}

func (s *GameSession) run(onGameOver func(context.Context, *game.Match, game.MatchResult) error) {
	ctx := context.Background()
	res, err := s.match.Run(ctx)

	result := rcnet.BuildResultView(s.match.Board, res)
	if err != nil {
		result.Summary = fmt.Sprintf("error: %v", err)
	} else if onGameOver != nil {
		_ = onGameOver(ctx, s.match, res)
	}

	// Notify human over TCP
	if s.humanCtrl != nil {
		_ = s.humanCtrl.SendGameOver(result)
	}
	s.closeConn()

	s.mu.Lock()
	s.gameOver = true
	s.result = result
	s.mu.Unlock()

	// Notify the agent via pending channel
	s.pendingCh <- &PendingDecision{
		Type:   DecisionGameOver,
		Seat:   s.agentSeat,
		State:  rcnet.BuildStateView(s.match.Board, s.agentSeat),
		Result: result,
	}
}

// closeConn releases TCP resources held for the human player.
func (s *GameSession) closeConn() {
	if s.humanConn != nil {
		s.humanConn.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev rcnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []rcnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []rcnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.currentPending = pending
	s.mu.Unlock()
	return s.response(pending), nil
}

// snapshot returns the last decision handed to the agent and whether the
// game has finished.
func (s *GameSession) snapshot() (*PendingDecision, bool, *rcnet.ResultView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPending, s.gameOver, s.result
}

func (s *GameSession) response(pending *PendingDecision) *ToolResponse {
	resp := &ToolResponse{
		SessionID: s.ID,
		Events:    s.drainEvents(),
	}
	if pending == nil {
		return resp
	}
	resp.State = pending.State

	if pending.Type == DecisionGameOver {
		resp.GameOver = true
		resp.Result = pending.Result
		return resp
	}

	resp.Pending = &PendingView{
		Type:      pending.Type,
		ForPlayer: s.playerLabel(pending.Seat),
		Choices:   pending.Choices,
		Targets:   pending.Targets,
		Rejected:  pending.Rejected,
	}
	return resp
}

// respond hands the agent's move to the match goroutine and waits for the
// next decision.
func (s *GameSession) respond(ctx context.Context, move game.Move) (*ToolResponse, error) {
	select {
	case s.agentCtrl.responseCh <- move:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.waitForPending(ctx)
}

// playerLabel returns "agent" or "opponent" for the given seat.
func (s *GameSession) playerLabel(seat game.Seat) string {
	if seat == s.agentSeat {
		return "agent"
	}
	return "opponent"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
