package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/rowclash/internal/log"
)

// PlayerController is the interface that human (TCP, websocket), AI (MCP) and
// bot players implement.
type PlayerController interface {
	// ChooseMove presents the board and waits for the player to pass or play.
	ChooseMove(ctx context.Context, req MoveRequest) (Move, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// MoveRequest is what a controller sees when it is asked to move. Board is a
// live view owned by the match goroutine; controllers must only read it and
// only for the duration of the call.
type MoveRequest struct {
	Seat     Seat
	Board    *Board
	Choices  []int  // playable hand indices
	Attempt  int    // 1-based, increments after a rejected move
	Rejected string // reason the previous attempt was rejected, if any
}

// Move is a controller's decision: pass the round or play a card.
type Move struct {
	Pass bool
	Play Play
}

// PassMove returns a move that passes the round.
func PassMove() Move { return Move{Pass: true} }

// PlayMove returns a move that plays a card.
func PlayMove(p Play) Move { return Move{Play: p} }

func (m Move) String() string {
	if m.Pass {
		return "pass"
	}
	s := fmt.Sprintf("play %d", m.Play.HandIndex)
	if m.Play.Row != 0 {
		s += " " + m.Play.Row.String()
	}
	if m.Play.Target != nil {
		s += " -> " + m.Play.Target.String()
	}
	return s
}

// --- RandomController: the reference bot ---

// DefaultPassChance is how often the random bot passes when it could play.
const DefaultPassChance = 0.03

// RandomController plays a random card into a random legal row, targets a
// random opposing card with Burn, and occasionally passes.
type RandomController struct {
	rng        *rand.Rand
	PassChance float64
}

// NewRandomController creates a bot with its own seeded RNG.
func NewRandomController(seed int64) *RandomController {
	return &RandomController{
		rng:        rand.New(rand.NewSource(seed)),
		PassChance: DefaultPassChance,
	}
}

func (c *RandomController) ChooseMove(_ context.Context, req MoveRequest) (Move, error) {
	if len(req.Choices) == 0 || c.rng.Float64() < c.PassChance {
		return PassMove(), nil
	}
	idx := req.Choices[c.rng.Intn(len(req.Choices))]
	play := Play{HandIndex: idx, Row: RowAny}
	if rows := req.Board.ValidRows(req.Seat, idx); len(rows) > 0 {
		play.Row = rows[c.rng.Intn(len(rows))]
	}
	card := req.Board.Hand(req.Seat)[idx]
	if card.Effect.NeedsTarget() {
		if targets := req.Board.BurnTargets(req.Seat); len(targets) > 0 {
			t := targets[c.rng.Intn(len(targets))]
			play.Target = &t
		}
	}
	return PlayMove(play), nil
}

func (c *RandomController) Notify(context.Context, log.GameEvent) error {
	return nil
}
