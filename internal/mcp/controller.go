package mcp

import (
	"context"

	"github.com/peterkuimelis/rowclash/internal/game"
	"github.com/peterkuimelis/rowclash/internal/log"
	"github.com/peterkuimelis/rowclash/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	seat       game.Seat
	session    *GameSession
	responseCh chan game.Move
}

// NewMCPController creates a controller for the given seat.
func NewMCPController(seat game.Seat, session *GameSession) *MCPController {
	return &MCPController{
		seat:       seat,
		session:    session,
		responseCh: make(chan game.Move),
	}
}

// ChooseMove implements game.PlayerController. Views are built here, while
// the match goroutine is parked, so tools never read the live board.
func (c *MCPController) ChooseMove(ctx context.Context, req game.MoveRequest) (game.Move, error) {
	pending := &PendingDecision{
		Type:     DecisionChooseMove,
		Seat:     c.seat,
		State:    net.BuildStateView(req.Board, c.seat),
		Choices:  net.BuildChoices(req.Board, c.seat),
		Targets:  net.BuildTargets(req.Board, c.seat),
		Rejected: req.Rejected,
		Attempt:  req.Attempt,
	}
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return game.Move{}, ctx.Err()
	}

	select {
	case move := <-c.responseCh:
		return move, nil
	case <-ctx.Done():
		return game.Move{}, ctx.Err()
	}
}

// Notify implements game.PlayerController.
// Only the agent controller appends events to avoid duplicates.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.EventToView(event))
	return nil
}
