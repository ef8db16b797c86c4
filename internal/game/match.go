package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/peterkuimelis/rowclash/internal/log"
)

const (
	// MaxMoveAttempts is how many rejected moves a player may submit in one
	// turn before being passed.
	MaxMoveAttempts = 3
	// DefaultMaxTurns is the safety limit on individual turns per match.
	DefaultMaxTurns = 200
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	TopName         string
	BottomName      string
	TopDeck         []Card
	BottomDeck      []Card
	Logger          log.EventLogger
	Seed            int64 // RNG seed (0 for random)
	NoShuffle       bool  // skip the round 1 shuffle (for deterministic tests)
	MaxTurns        int   // stop after this many turns (0 = DefaultMaxTurns)
	InitialHandSize int   // cards drawn in round 1 (0 = InitialHandSize)
	RoundDrawSize   int   // cards drawn in later rounds (0 = RoundDrawSize)
}

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	Seed         int64         `json:"seed"`
	TopWon       bool          `json:"top_won"`
	BottomWon    bool          `json:"bottom_won"`
	TopRounds    int           `json:"top_rounds"`
	BottomRounds int           `json:"bottom_rounds"`
	Rounds       []RoundResult `json:"rounds"`
	Turns        int           `json:"turns"`
	TurnLimit    bool          `json:"turn_limit,omitempty"`
}

// Draw reports whether neither or both players won.
func (r MatchResult) Draw() bool {
	return r.TopWon == r.BottomWon
}

// Match orchestrates an entire game between two players.
type Match struct {
	Board       *Board
	Controllers [2]PlayerController
	Logger      log.EventLogger
	ctx         context.Context
	seed        int64
	noShuffle   bool
	maxTurns    int
	initialHand int
	roundDraw   int
	turns       int
	result      MatchResult
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, top, bottom PlayerController) *Match {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	topName, bottomName := cfg.TopName, cfg.BottomName
	if topName == "" {
		topName = "Top"
	}
	if bottomName == "" {
		bottomName = "Bottom"
	}

	m := &Match{
		Board:       NewBoard(topName, bottomName, rand.New(rand.NewSource(seed))),
		Controllers: [2]PlayerController{top, bottom},
		Logger:      logger,
		ctx:         context.Background(),
		seed:        seed,
		noShuffle:   cfg.NoShuffle,
		maxTurns:    orDefault(cfg.MaxTurns, DefaultMaxTurns),
		initialHand: orDefault(cfg.InitialHandSize, InitialHandSize),
		roundDraw:   orDefault(cfg.RoundDrawSize, RoundDrawSize),
	}
	m.Board.SetDeck(Top, cfg.TopDeck)
	m.Board.SetDeck(Bottom, cfg.BottomDeck)
	m.Board.SetLogger(matchLogger{m})
	return m
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Seed returns the seed driving the board RNG, for replays.
func (m *Match) Seed() int64 {
	return m.seed
}

// Run plays rounds until the game ends, the turn limit is hit or ctx is
// cancelled.
func (m *Match) Run(ctx context.Context) (MatchResult, error) {
	m.ctx = ctx
	b := m.Board
	m.result = MatchResult{Seed: m.seed}

	for !b.GameEnded() {
		if err := ctx.Err(); err != nil {
			return m.finish(), err
		}
		m.startRound()
		if err := m.playRound(); err != nil {
			return m.finish(), err
		}
		if m.result.TurnLimit {
			break
		}
		m.result.Rounds = append(m.result.Rounds, b.EndRound())
	}

	res := m.finish()
	switch {
	case res.TurnLimit:
		m.log(log.NewTieEvent(b.Round(), res.TopRounds, res.BottomRounds))
	case res.Draw():
		m.log(log.NewTieEvent(b.Round()-1, res.TopRounds, res.BottomRounds))
	case res.TopWon:
		m.log(log.NewWinEvent(b.Round()-1, int(Top), b.PlayerName(Top), res.TopRounds, res.BottomRounds))
	default:
		m.log(log.NewWinEvent(b.Round()-1, int(Bottom), b.PlayerName(Bottom), res.TopRounds, res.BottomRounds))
	}
	return res, nil
}

func (m *Match) finish() MatchResult {
	b := m.Board
	m.result.Turns = m.turns
	m.result.TopRounds = b.RoundsWon(Top)
	m.result.BottomRounds = b.RoundsWon(Bottom)
	if b.GameEnded() && !m.result.TurnLimit {
		m.result.TopWon, m.result.BottomWon = b.Winner()
	}
	return m.result
}

// Opener returns the seat that moves first in the given round: top opens
// odd rounds, bottom opens even rounds.
func Opener(round int) Seat {
	if round%2 == 0 {
		return Bottom
	}
	return Top
}

// startRound logs the new round and deals cards to both players.
func (m *Match) startRound() {
	b := m.Board
	round := b.Round()
	opener := Opener(round)
	m.log(log.NewRoundEvent(round, int(opener), b.PlayerName(opener)))
	for _, seat := range Seats {
		if round == 1 {
			b.DrawCardsToHand(seat, m.initialHand, !m.noShuffle)
		} else {
			b.DrawCardsToHand(seat, m.roundDraw, false)
		}
	}
}

// playRound alternates turns until both players have passed.
func (m *Match) playRound() error {
	b := m.Board
	current := Opener(b.Round())
	for !b.BothPassed() {
		if err := m.ctx.Err(); err != nil {
			return err
		}
		if !b.HasPassed(current) {
			if m.turns >= m.maxTurns {
				m.result.TurnLimit = true
				m.log(log.NewTurnLimitEvent(b.Round(), m.maxTurns))
				return nil
			}
			m.turns++
			if err := m.takeTurn(current); err != nil {
				return err
			}
		}
		current = current.Opponent()
	}
	return nil
}

// takeTurn asks the seat's controller for a move and applies it. Rejected
// moves are re-asked up to MaxMoveAttempts times, then the player passes.
func (m *Match) takeTurn(seat Seat) error {
	b := m.Board
	p := b.Player(seat)
	if len(p.Hand) == 0 {
		p.Passed = true
		m.log(log.NewAutoPassEvent(b.Round(), int(seat), p.Name))
		return nil
	}

	rejected := ""
	for attempt := 1; attempt <= MaxMoveAttempts; attempt++ {
		move, err := m.Controllers[seat].ChooseMove(m.ctx, MoveRequest{
			Seat:     seat,
			Board:    b,
			Choices:  b.ValidChoices(seat),
			Attempt:  attempt,
			Rejected: rejected,
		})
		if err != nil {
			return fmt.Errorf("%s choose move: %w", p.Name, err)
		}
		if move.Pass {
			b.PassRound(seat)
			return nil
		}
		err = b.PlayCard(seat, move.Play)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrInvalidMove) {
			return err
		}
		rejected = err.Error()
		m.log(log.NewRejectedEvent(b.Round(), int(seat), p.Name, rejected))
	}
	b.PassRound(seat)
	return nil
}

func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for i := 0; i < 2; i++ {
		_ = m.Controllers[i].Notify(m.ctx, event)
	}
}

// matchLogger routes board events through the match so controllers see them.
type matchLogger struct{ m *Match }

func (l matchLogger) Log(event log.GameEvent) { l.m.log(event) }
func (l matchLogger) Events() []log.GameEvent { return l.m.Logger.Events() }
