package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/rowclash/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of moves.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t     *testing.T
	name  string
	moves []ScriptedMove
	pos   int

	Requests []MoveRequest
	Events   []log.GameEvent
}

type ScriptedMove struct {
	Pass bool
	// Match by card name — picks the first card in hand with this name
	CardName string
	Row      Row
	// Optional: name of the opposing board card to target
	TargetName string
	// Optional: raw hand index, used when CardName is empty
	Index int
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddPlay(cardName string, row Row) *ScriptedController {
	sc.moves = append(sc.moves, ScriptedMove{CardName: cardName, Row: row})
	return sc
}

func (sc *ScriptedController) AddBurn(cardName, targetName string) *ScriptedController {
	sc.moves = append(sc.moves, ScriptedMove{CardName: cardName, TargetName: targetName})
	return sc
}

func (sc *ScriptedController) AddIndex(index int, row Row) *ScriptedController {
	sc.moves = append(sc.moves, ScriptedMove{Index: index, Row: row})
	return sc
}

func (sc *ScriptedController) AddPass() *ScriptedController {
	sc.moves = append(sc.moves, ScriptedMove{Pass: true})
	return sc
}

func (sc *ScriptedController) ChooseMove(_ context.Context, req MoveRequest) (Move, error) {
	sc.Requests = append(sc.Requests, req)
	if sc.pos >= len(sc.moves) {
		// Script exhausted: pass
		return PassMove(), nil
	}
	scripted := sc.moves[sc.pos]
	sc.pos++
	if scripted.Pass {
		return PassMove(), nil
	}

	play := Play{HandIndex: scripted.Index, Row: scripted.Row}
	if scripted.CardName != "" {
		play.HandIndex = -1
		for i, c := range req.Board.Hand(req.Seat) {
			if c.Name == scripted.CardName {
				play.HandIndex = i
				break
			}
		}
		if play.HandIndex < 0 {
			sc.t.Errorf("[%s] scripted card %q not in hand", sc.name, scripted.CardName)
			return PassMove(), nil
		}
	}
	if scripted.TargetName != "" {
		opp := req.Board.HalfBoard(req.Seat.Opponent())
		for _, row := range ScoredRows {
			for i, c := range opp[row] {
				if c.Name == scripted.TargetName && play.Target == nil {
					play.Target = &Slot{Row: row, Index: i}
				}
			}
		}
		if play.Target == nil {
			sc.t.Errorf("[%s] scripted target %q not on opposing board", sc.name, scripted.TargetName)
		}
	}
	return PlayMove(play), nil
}

func (sc *ScriptedController) Notify(_ context.Context, event log.GameEvent) error {
	sc.Events = append(sc.Events, event)
	return nil
}

// --- Helpers ---

func newTestBoard() *Board {
	return NewBoard("Top", "Bottom", rand.New(rand.NewSource(1)))
}

// strengthCard creates a plain card with a name, strength and restriction.
func strengthCard(name string, strength int, row Row) Card {
	return Card{Name: name, Strength: strength, Row: row}
}

// makePaddedDeck puts the given cards on top of the deck and fills the rest
// with 1-strength heroes.
func makePaddedDeck(top []Card, size int) []Card {
	deck := append([]Card{}, top...)
	for len(deck) < size {
		deck = append(deck, Hero(1))
	}
	return deck
}

// give places cards directly into a seat's hand.
func give(b *Board, seat Seat, cards ...Card) {
	p := b.Player(seat)
	p.Hand = append(p.Hand, cards...)
}

func mustPlay(t *testing.T, b *Board, seat Seat, play Play) {
	t.Helper()
	if err := b.PlayCard(seat, play); err != nil {
		t.Fatalf("PlayCard(%s, %+v): %v", seat, play, err)
	}
}

func checkInvariants(t *testing.T, b *Board) {
	t.Helper()
	if err := b.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func runMatchToCompletion(t *testing.T, cfg MatchConfig, top, bottom PlayerController) (MatchResult, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	m := NewMatch(cfg, top, bottom)
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("match error: %v\n%s", err, log.FormatAll(logger.Events()))
	}
	checkInvariants(t, m.Board)
	return res, logger
}
