package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/rowclash/internal/game"
)

const testDecks = `decks:
  - name: Vanguard
    cards:
      - {name: KNIGHT, strength: 3, count: 4}
      - {name: CLERIC, strength: 2, count: 4}
      - {name: HERO, strength: 4, count: 4}
  - name: Mystics
    cards:
      - {name: HEALER, strength: 3, count: 4}
      - {name: HERO, strength: 2, count: 4}
      - {name: BURN, count: 2}
      - {name: SUMMON, count: 2}
`

func writeDecks(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	if err := os.WriteFile(path, []byte(testDecks), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return res, c.Text
	case *mcp.TextContent:
		return res, c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return nil, ""
}

func decodeResponse(t *testing.T, text string) ToolResponse {
	t.Helper()
	var resp ToolResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	return resp
}

func TestSessionAgainstBot(t *testing.T) {
	var recorded bool
	sess, err := NewGameSession(SessionConfig{
		DecksFile:    writeDecks(t),
		AgentDeck:    1,
		AgentSeat:    game.Bottom,
		Opponent:     OpponentBot,
		OpponentDeck: 2,
		Seed:         7,
		OnGameOver: func(context.Context, *game.Match, game.MatchResult) error {
			recorded = true
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Error("Expected a session ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; !resp.GameOver; i++ {
		if i > 100 {
			t.Fatal("agent never reached game over")
		}
		if resp.Pending == nil || resp.Pending.ForPlayer != "agent" || resp.State == nil {
			t.Fatalf("Unexpected pending response %+v", resp)
		}
		// Vanguard has no effect cards, so the first choice always lands
		move := game.PlayMove(game.Play{HandIndex: resp.Pending.Choices[0].Index})
		resp, err = sess.respond(ctx, move)
		if err != nil {
			t.Fatal(err)
		}
	}
	if resp.Result == nil || resp.Result.BottomName == "" {
		t.Errorf("Expected a result, got %+v", resp.Result)
	}
	if !recorded {
		t.Error("Expected OnGameOver to be called")
	}
}

func TestToolsAgainstBot(t *testing.T) {
	SetDecksFile(writeDecks(t))
	t.Cleanup(func() { setSession(nil) })

	if res, _ := callTool(t, handlePassRound, nil); !res.IsError {
		t.Error("Expected error when no game is running")
	}
	if res, _ := callTool(t, handleStartGame, map[string]any{"agent_deck": 0}); !res.IsError {
		t.Error("Expected error for deck 0")
	}
	if res, _ := callTool(t, handleStartGame, map[string]any{"agent_deck": 1, "agent_seat": "left"}); !res.IsError {
		t.Error("Expected error for unknown seat")
	}

	res, text := callTool(t, handleStartGame, map[string]any{
		"agent_deck": 1, "agent_seat": "top", "opponent": "bot", "opponent_deck": 2, "seed": 3,
	})
	if res.IsError {
		t.Fatalf("start_game failed: %s", text)
	}
	resp := decodeResponse(t, text)
	if resp.Pending == nil || resp.Pending.Type != DecisionChooseMove || len(resp.Pending.Choices) != game.InitialHandSize {
		t.Fatalf("Unexpected first decision %+v", resp.Pending)
	}
	if resp.Port != "" {
		t.Error("Bot games should not advertise a port")
	}

	if res, _ := callTool(t, handleStartGame, map[string]any{"agent_deck": 1, "opponent": "bot"}); !res.IsError {
		t.Error("Expected error while a game is running")
	}
	if res, _ := callTool(t, handlePlayCard, map[string]any{"index": 99}); !res.IsError {
		t.Error("Expected error for out-of-range index")
	}
	if res, _ := callTool(t, handlePlayCard, map[string]any{"index": 0, "row": "BACK"}); !res.IsError {
		t.Error("Expected error for unknown row")
	}

	// KNIGHT is restricted to FRONT, so WISE is rejected by the engine and
	// the same decision comes back with a reason.
	knight := -1
	for _, ch := range resp.Pending.Choices {
		if ch.Name == "KNIGHT" {
			knight = ch.Index
			break
		}
	}
	if knight < 0 {
		t.Fatal("Expected a KNIGHT in the opening hand")
	}
	_, text = callTool(t, handlePlayCard, map[string]any{"index": knight, "row": "WISE"})
	resp = decodeResponse(t, text)
	if resp.Pending == nil || resp.Pending.Rejected == "" {
		t.Fatalf("Expected a rejected decision, got %+v", resp.Pending)
	}

	_, text = callTool(t, handleGetGameState, nil)
	state := decodeResponse(t, text)
	if state.State == nil || state.State.You.HandCount != game.InitialHandSize {
		t.Errorf("Unexpected state %+v", state.State)
	}

	for i := 0; !resp.GameOver; i++ {
		if i > 10 {
			t.Fatal("passing never ended the game")
		}
		_, text = callTool(t, handlePassRound, nil)
		resp = decodeResponse(t, text)
	}
	if resp.Result == nil {
		t.Fatal("Expected a result at game over")
	}

	if res, _ := callTool(t, handlePassRound, nil); !res.IsError {
		t.Error("Expected error after game over")
	}
	_, text = callTool(t, handleGetGameState, nil)
	if !decodeResponse(t, text).GameOver {
		t.Error("get_game_state should report game over")
	}
}
