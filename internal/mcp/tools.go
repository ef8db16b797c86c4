package mcp

import (
	"context"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/rowclash/internal/game"
	rcnet "github.com/peterkuimelis/rowclash/internal/net"
)

var (
	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession
	sessionMu     sync.Mutex
)

// decksFile is the path to the decks YAML file, set by main.
var decksFile string

// port is the TCP port for the human player connection, set by main.
var port string

// recorder receives every finished match, set by main.
var recorder func(ctx context.Context, m *game.Match, res game.MatchResult) error

// SetDecksFile sets the path to the decks YAML file.
func SetDecksFile(path string) {
	decksFile = path
}

// SetPort sets the TCP port for the human player connection.
func SetPort(p string) {
	port = p
}

// SetRecorder sets the callback invoked when a session's match ends.
func SetRecorder(fn func(ctx context.Context, m *game.Match, res game.MatchResult) error) {
	recorder = fn
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(passRoundTool(), handlePassRound)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

func currentSession() *GameSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

func setSession(sess *GameSession) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	activeSession = sess
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Rowclash match. Returns the initial game state and first pending decision. "+
			"Against a human opponent, they connect via `rowclash-cli join --addr localhost:<port> --deck N` in a separate terminal "+
			"and this call blocks until they connect. Against the bot the match starts immediately."),
		mcp.WithNumber("agent_deck", mcp.Required(), mcp.Description("Deck number for the agent (1-indexed from decks.yaml)")),
		mcp.WithString("agent_seat", mcp.Description("Seat for the agent: 'top' opens round 1, 'bottom' opens round 2. Default top.")),
		mcp.WithString("opponent", mcp.Description("'human' (TCP client) or 'bot' (random player). Default human.")),
		mcp.WithNumber("opponent_deck", mcp.Description("Deck number for the bot. Defaults to the agent's deck.")),
		mcp.WithNumber("seed", mcp.Description("Match seed for reproducible shuffles. 0 picks one from the clock.")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from hand. Use the index from the pending choices list. "+
			"Unit cards may name a row (FRONT, WISE, SUPPORT); restricted cards go to their own row. "+
			"BURN needs target_row and target_index from the pending targets list."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Hand index of the card to play (the choice's index field)")),
		mcp.WithString("row", mcp.Description("Row to place the card in. Empty means the card's natural row.")),
		mcp.WithString("target_row", mcp.Description("Row of the opponent's card to burn")),
		mcp.WithNumber("target_index", mcp.Description("Index of the opponent's card within target_row")),
	)
}

func passRoundTool() mcp.Tool {
	return mcp.NewTool("pass_round",
		mcp.WithDescription("Pass for the rest of the round. Once both players pass the round is scored."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if sess := currentSession(); sess != nil {
		if _, over, _ := sess.snapshot(); !over {
			return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
		}
	}

	agentDeck := request.GetInt("agent_deck", 0)
	if agentDeck < 1 {
		return mcp.NewToolResultError("agent_deck must be >= 1"), nil
	}

	var seat game.Seat
	switch strings.ToLower(request.GetString("agent_seat", "top")) {
	case "top", "":
		seat = game.Top
	case "bottom":
		seat = game.Bottom
	default:
		return mcp.NewToolResultError("agent_seat must be 'top' or 'bottom'"), nil
	}

	opponent := strings.ToLower(request.GetString("opponent", OpponentHuman))
	if opponent != OpponentHuman && opponent != OpponentBot {
		return mcp.NewToolResultError("opponent must be 'human' or 'bot'"), nil
	}

	sess, err := NewGameSession(SessionConfig{
		DecksFile:    decksFile,
		AgentDeck:    agentDeck,
		AgentSeat:    seat,
		Opponent:     opponent,
		OpponentDeck: request.GetInt("opponent_deck", 0),
		Port:         port,
		Seed:         int64(request.GetInt("seed", 0)),
		OnGameOver:   recorder,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	setSession(sess)

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}

	if opponent == OpponentHuman {
		resp.Port = port
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, pending, errResult := agentTurn()
	if errResult != nil {
		return errResult, nil
	}

	index := request.GetInt("index", -1)
	var valid bool
	for _, ch := range pending.Choices {
		if ch.Index == index {
			valid = true
			break
		}
	}
	if !valid {
		return mcp.NewToolResultErrorf("Invalid index %d. Use an index from the pending choices.", index), nil
	}

	move, err := rcnet.MoveFromMessage(rcnet.ClientMessage{
		Type:        rcnet.MsgMove,
		Index:       index,
		Row:         request.GetString("row", ""),
		TargetRow:   request.GetString("target_row", ""),
		TargetIndex: request.GetInt("target_index", 0),
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid move: %v", err), nil
	}

	return submit(ctx, sess, move)
}

func handlePassRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, _, errResult := agentTurn()
	if errResult != nil {
		return errResult, nil
	}
	return submit(ctx, sess, game.PassMove())
}

// agentTurn returns the active session and its pending move decision, or a
// tool error explaining why the agent cannot move now.
func agentTurn() (*GameSession, *PendingDecision, *mcp.CallToolResult) {
	sess := currentSession()
	if sess == nil {
		return nil, nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	pending, over, _ := sess.snapshot()
	if over || (pending != nil && pending.Type == DecisionGameOver) {
		return nil, nil, mcp.NewToolResultError("The game is over. Use start_game to play again.")
	}
	if pending == nil {
		return nil, nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Seat != sess.agentSeat {
		return nil, nil, mcp.NewToolResultError("Waiting for the opponent to respond.")
	}
	return sess, pending, nil
}

func submit(ctx context.Context, sess *GameSession, move game.Move) (*mcp.CallToolResult, error) {
	resp, err := sess.respond(ctx, move)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	pending, gameOver, result := sess.snapshot()
	resp := sess.response(pending)
	if gameOver {
		resp.GameOver = true
		resp.Result = result
		resp.Pending = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}
