package game

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

// TestKnightScenario: bottom draws a single KNIGHT from a one-card deck and plays it FRONT.
func TestKnightScenario(t *testing.T) {
	b := newTestBoard()
	b.SetDeck(Bottom, []Card{Knight(10)})

	if n := b.DrawCardsToHand(Bottom, 2, false); n != 1 {
		t.Fatalf("Expected 1 card drawn, got %d", n)
	}
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowFront})

	if got := b.RowScore(Bottom, RowFront); got != 10 {
		t.Errorf("Expected bottom FRONT score 10, got %d", got)
	}
	top, bottom := b.WonRows()
	if top != 0 || bottom != 1 {
		t.Errorf("Expected won rows (0, 1), got (%d, %d)", top, bottom)
	}
	if b.RowsWon(Bottom) != 1 || b.RowsWon(Top) != 0 {
		t.Errorf("Expected rows-won cache (0, 1), got (%d, %d)", b.RowsWon(Top), b.RowsWon(Bottom))
	}
	checkInvariants(t, b)
}

// TestTieSemantics: FRONT 5/5 counts for both, WISE 3/0 for top, SUPPORT 0/0 for neither.
func TestTieSemantics(t *testing.T) {
	b := newTestBoard()
	give(b, Top, Knight(5), Cleric(3))
	give(b, Bottom, Knight(5))

	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowWise})
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowFront})

	top, bottom := b.WonRows()
	if top != 2 || bottom != 1 {
		t.Fatalf("Expected won rows (2, 1), got (%d, %d)", top, bottom)
	}
	if w := b.RoundWinner(); !reflect.DeepEqual(w, []string{"Top"}) {
		t.Errorf("Expected round winner [Top], got %v", w)
	}

	scores := b.RowScores(Top)
	want := map[Row]int{RowFront: 5, RowWise: 3, RowSupport: 0}
	if !reflect.DeepEqual(scores, want) {
		t.Errorf("Expected top row scores %v, got %v", want, scores)
	}
	if _, ok := scores[RowEffects]; ok {
		t.Error("RowScores must not include EFFECTS")
	}
}

// TestEmptyBoardTie: no cards on either side means no won rows and both lead the round.
func TestEmptyBoardTie(t *testing.T) {
	b := newTestBoard()
	top, bottom := b.WonRows()
	if top != 0 || bottom != 0 {
		t.Fatalf("Expected (0, 0), got (%d, %d)", top, bottom)
	}
	if w := b.RoundWinner(); !reflect.DeepEqual(w, []string{"Top", "Bottom"}) {
		t.Errorf("Expected both names, got %v", w)
	}

	res := b.EndRound()
	if !res.TopWon || !res.BottomWon {
		t.Errorf("Expected a tied round to award both, got %+v", res)
	}
	if b.RoundsWon(Top) != 1 || b.RoundsWon(Bottom) != 1 {
		t.Errorf("Expected both players to have 1 round, got %d/%d", b.RoundsWon(Top), b.RoundsWon(Bottom))
	}
}

func TestEndRoundGraveyarding(t *testing.T) {
	b := newTestBoard()
	give(b, Top, Healer(1), Knight(2), Cleric(3), Knight(4))
	give(b, Bottom, Cleric(6))

	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowSupport}) // Healer 1
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})   // Knight 2
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowWise})    // Cleric 3
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})   // Knight 4
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowWise}) // Cleric 6
	b.PassRound(Top)
	b.PassRound(Bottom)
	if !b.BothPassed() {
		t.Fatal("Expected both players passed")
	}

	res := b.EndRound()
	// Top wins FRONT and SUPPORT, bottom wins WISE.
	want := RoundResult{Round: 1, TopRows: 2, BottomRows: 1, TopWon: true}
	if res != want {
		t.Errorf("Expected %+v, got %+v", want, res)
	}

	for _, seat := range Seats {
		if n := b.HalfBoard(seat).Count(); n != 0 {
			t.Errorf("%s: expected empty board, got %d cards", seat, n)
		}
		if b.HasPassed(seat) {
			t.Errorf("%s: pass flag not reset", seat)
		}
		if b.RowsWon(seat) != 0 {
			t.Errorf("%s: rows won not reset", seat)
		}
	}

	wantTop := []Card{Knight(2), Knight(4), Cleric(3), Healer(1)}
	if got := b.Graveyard(Top); !reflect.DeepEqual(got, wantTop) {
		t.Errorf("Expected top graveyard %v, got %v", wantTop, got)
	}
	if got := b.Graveyard(Bottom); !reflect.DeepEqual(got, []Card{Cleric(6)}) {
		t.Errorf("Expected bottom graveyard [CLERIC 6], got %v", got)
	}
	if b.Round() != 2 {
		t.Errorf("Expected round 2, got %d", b.Round())
	}
	checkInvariants(t, b)
}

// TestEndRoundAppendsGraveyard: earlier graveyard contents are kept.
func TestEndRoundAppendsGraveyard(t *testing.T) {
	b := newTestBoard()
	b.Player(Top).Graveyard = []Card{Hero(9)}
	give(b, Top, Knight(1))
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})
	b.EndRound()

	if got := b.Graveyard(Top); !reflect.DeepEqual(got, []Card{Hero(9), Knight(1)}) {
		t.Errorf("Expected [HERO 9, KNIGHT 1], got %v", got)
	}
}

func TestTermination(t *testing.T) {
	t.Run("alternating winners", func(t *testing.T) {
		b := newTestBoard()
		winners := []Seat{Top, Bottom, Top}
		for i, w := range winners {
			if b.GameEnded() {
				t.Fatalf("game ended early before round %d", i+1)
			}
			give(b, w, Knight(3))
			mustPlay(t, b, w, Play{HandIndex: 0, Row: RowFront})
			b.EndRound()
		}
		if !b.GameEnded() {
			t.Fatal("Expected game to end after 3 rounds")
		}
		top, bottom := b.Winner()
		if !top || bottom {
			t.Errorf("Expected top to win, got (%v, %v)", top, bottom)
		}
	})

	t.Run("two wins end early", func(t *testing.T) {
		b := newTestBoard()
		for i := 0; i < 2; i++ {
			give(b, Bottom, Healer(2))
			mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowSupport})
			b.EndRound()
		}
		if !b.GameEnded() {
			t.Fatal("Expected game to end once bottom has 2 rounds")
		}
		if b.Round() != 3 {
			t.Errorf("Expected round 3, got %d", b.Round())
		}
		top, bottom := b.Winner()
		if top || !bottom {
			t.Errorf("Expected bottom to win, got (%v, %v)", top, bottom)
		}
	})

	t.Run("ties end after two rounds with both winning", func(t *testing.T) {
		b := newTestBoard()
		b.EndRound()
		b.EndRound()
		if !b.GameEnded() {
			t.Fatal("Expected game to end after two tied rounds")
		}
		top, bottom := b.Winner()
		if !top || !bottom {
			t.Errorf("Expected both to win, got (%v, %v)", top, bottom)
		}
	})

	t.Run("never more than three rounds", func(t *testing.T) {
		b := newTestBoard()
		calls := 0
		for !b.GameEnded() {
			b.EndRound()
			calls++
		}
		if calls > 3 {
			t.Errorf("Expected at most 3 EndRound calls, got %d", calls)
		}
	})
}

func TestDrawClamping(t *testing.T) {
	b := newTestBoard()
	b.SetDeck(Top, []Card{Knight(1), Cleric(2), Healer(3)})

	if n := b.DrawCardsToHand(Top, 5, false); n != 3 {
		t.Errorf("Expected 3 drawn, got %d", n)
	}
	if len(b.Deck(Top)) != 0 || len(b.Hand(Top)) != 3 {
		t.Errorf("Expected empty deck and 3-card hand, got %d/%d", len(b.Deck(Top)), len(b.Hand(Top)))
	}
	if n := b.DrawCardsToHand(Top, 2, true); n != 0 {
		t.Errorf("Expected 0 drawn from empty deck, got %d", n)
	}
	if want := []Card{Knight(1), Cleric(2), Healer(3)}; !reflect.DeepEqual(b.Hand(Top), want) {
		t.Errorf("Expected draw order %v, got %v", want, b.Hand(Top))
	}

	b.Player(Top).Graveyard = []Card{Hero(4)}
	if n := b.DrawCardsFromGraveyard(Top, 3); n != 1 {
		t.Errorf("Expected 1 revived, got %d", n)
	}
	if n := b.DrawCardsFromGraveyard(Top, 1); n != 0 {
		t.Errorf("Expected 0 from empty graveyard, got %d", n)
	}
	if len(b.Hand(Top)) != 4 {
		t.Errorf("Expected 4 cards in hand, got %d", len(b.Hand(Top)))
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	deck := makePaddedDeck([]Card{Knight(1), Knight(2), Knight(3), Knight(4), Knight(5)}, 20)
	draw := func(seed int64) []Card {
		b := NewBoard("Top", "Bottom", rand.New(rand.NewSource(seed)))
		b.SetDeck(Top, deck)
		b.DrawCardsToHand(Top, 10, true)
		return b.Hand(Top)
	}
	if !reflect.DeepEqual(draw(42), draw(42)) {
		t.Error("Expected identical hands from the same seed")
	}
}

func TestPlayCardRejections(t *testing.T) {
	tests := []struct {
		name string
		card Card
		play Play
		want error
	}{
		{"index out of range", Knight(1), Play{HandIndex: 1, Row: RowFront}, ErrInvalidHandIndex},
		{"negative index", Knight(1), Play{HandIndex: -1, Row: RowFront}, ErrInvalidHandIndex},
		{"strength card into EFFECTS", Hero(1), Play{HandIndex: 0, Row: RowEffects}, ErrInvalidRow},
		{"knight into WISE", Knight(1), Play{HandIndex: 0, Row: RowWise}, ErrRowRestricted},
		{"healer into FRONT", Healer(1), Play{HandIndex: 0, Row: RowFront}, ErrRowRestricted},
		{"effect card into FRONT", Draw1(0), Play{HandIndex: 0, Row: RowFront}, ErrRowRestricted},
		{"strength card with EFFECTS restriction", strengthCard("ODD", 3, RowEffects), Play{HandIndex: 0}, ErrInvalidRow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard()
			b.SetDeck(Top, []Card{Cleric(1)})
			give(b, Top, tc.card)
			before := b.Snapshot()

			err := b.PlayCard(Top, tc.play)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidMove) {
				t.Errorf("Expected error to wrap ErrInvalidMove, got %v", err)
			}
			if after := b.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Error("Board changed after rejected play")
			}
		})
	}
}

func TestAnyRowResolution(t *testing.T) {
	b := newTestBoard()
	give(b, Top, Knight(2), Hero(3), Hero(4), Card{Name: "UNSET", Strength: 5})

	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowAny})
	if b.RowScore(Top, RowFront) != 2 {
		t.Errorf("Expected KNIGHT to resolve to FRONT")
	}

	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowWise})
	if b.RowScore(Top, RowWise) != 3 {
		t.Errorf("Expected HERO in chosen WISE row")
	}

	mustPlay(t, b, Top, Play{HandIndex: 0})
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowAny})
	if total := b.TotalScore(Top); total != 14 {
		t.Errorf("Expected total 14, got %d", total)
	}
	if n := len(b.HalfBoard(Top)[RowEffects]); n != 0 {
		t.Errorf("Expected EFFECTS empty, got %d", n)
	}
	checkInvariants(t, b)
}

func TestDuplicateCardsRemovedByIndex(t *testing.T) {
	b := newTestBoard()
	give(b, Top, Knight(1), Knight(1), Cleric(2))
	mustPlay(t, b, Top, Play{HandIndex: 1, Row: RowFront})

	if want := []Card{Knight(1), Cleric(2)}; !reflect.DeepEqual(b.Hand(Top), want) {
		t.Errorf("Expected hand %v, got %v", want, b.Hand(Top))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	b := newTestBoard()
	deck := []Card{Knight(1), Knight(2)}
	b.SetDeck(Top, deck)
	deck[0] = Hero(9)
	if b.Deck(Top)[0] != Knight(1) {
		t.Error("SetDeck aliased the caller's slice")
	}

	b.DrawCardsToHand(Top, 1, false)
	hand := b.Hand(Top)
	hand[0] = Hero(9)
	if b.Hand(Top)[0] != Knight(1) {
		t.Error("Hand returned an aliased slice")
	}

	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})
	hb := b.HalfBoard(Top)
	hb[RowFront][0] = Hero(9)
	if b.HalfBoard(Top)[RowFront][0] != Knight(1) {
		t.Error("HalfBoard returned aliased rows")
	}
}

func TestRemoveCardFromBoard(t *testing.T) {
	b := newTestBoard()
	give(b, Bottom, Knight(3), Knight(4))
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowFront})
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowFront})

	card, err := b.RemoveCardFromBoard(Bottom, RowFront, 0)
	if err != nil {
		t.Fatal(err)
	}
	if card != Knight(3) {
		t.Errorf("Expected KNIGHT 3, got %v", card)
	}
	if b.RowScore(Bottom, RowFront) != 4 {
		t.Errorf("Expected FRONT 4 after removal, got %d", b.RowScore(Bottom, RowFront))
	}
	if _, err := b.RemoveCardFromBoard(Bottom, RowFront, 5); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget, got %v", err)
	}
	checkInvariants(t, b)
}

func TestValidChoicesAndRows(t *testing.T) {
	b := newTestBoard()
	give(b, Top, Knight(1), Hero(1), Burn(0))

	if got := b.ValidChoices(Top); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Expected all indices, got %v", got)
	}
	if got := b.ValidChoices(Bottom); len(got) != 0 {
		t.Errorf("Expected no choices for empty hand, got %v", got)
	}
	if got := b.ValidRows(Top, 0); !reflect.DeepEqual(got, []Row{RowFront}) {
		t.Errorf("KNIGHT rows: %v", got)
	}
	if got := b.ValidRows(Top, 1); !reflect.DeepEqual(got, []Row{RowFront, RowWise, RowSupport}) {
		t.Errorf("HERO rows: %v", got)
	}
	if got := b.ValidRows(Top, 2); !reflect.DeepEqual(got, []Row{RowEffects}) {
		t.Errorf("BURN rows: %v", got)
	}
	if got := b.ValidRows(Top, 3); got != nil {
		t.Errorf("Expected nil for out of range, got %v", got)
	}

	give(b, Bottom, Cleric(2), Healer(1))
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowWise})
	mustPlay(t, b, Bottom, Play{HandIndex: 0, Row: RowSupport})
	want := []Slot{{Row: RowWise, Index: 0}, {Row: RowSupport, Index: 0}}
	if got := b.BurnTargets(Top); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected burn targets %v, got %v", want, got)
	}
}

// TestCardConservation plays random legal moves and checks that no card is
// created or lost while no Burn is involved.
func TestCardConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBoard("Top", "Bottom", rand.New(rand.NewSource(8)))
	deck := []Card{Knight(3), Cleric(2), Healer(4), Hero(5), Draw1(0), Draw2(0), Summon(0), Revive(0)}
	b.SetDeck(Top, append(append([]Card{}, deck...), deck...))
	b.SetDeck(Bottom, append(append([]Card{}, deck...), deck...))
	want := [2]int{b.CardCount(Top), b.CardCount(Bottom)}

	for !b.GameEnded() {
		for _, seat := range Seats {
			b.DrawCardsToHand(seat, 4, true)
		}
		for !b.BothPassed() {
			for _, seat := range Seats {
				if b.HasPassed(seat) {
					continue
				}
				hand := b.Hand(seat)
				if len(hand) == 0 || rng.Intn(6) == 0 {
					b.PassRound(seat)
					continue
				}
				idx := rng.Intn(len(hand))
				rows := b.ValidRows(seat, idx)
				mustPlay(t, b, seat, Play{HandIndex: idx, Row: rows[rng.Intn(len(rows))]})
				checkInvariants(t, b)
				for _, s := range Seats {
					if b.CardCount(s) != want[s] {
						t.Fatalf("%s: card count %d, want %d", s, b.CardCount(s), want[s])
					}
				}
			}
		}
		b.EndRound()
	}
}

func TestReset(t *testing.T) {
	b := newTestBoard()
	b.SetDeck(Top, []Card{Knight(1), Knight(2)})
	b.DrawCardsToHand(Top, 1, false)
	mustPlay(t, b, Top, Play{HandIndex: 0, Row: RowFront})
	b.PassRound(Top)
	b.EndRound()

	b.Reset()
	if b.Round() != 1 {
		t.Errorf("Expected round 1, got %d", b.Round())
	}
	for _, seat := range Seats {
		if b.CardCount(seat) != 0 || b.RoundsWon(seat) != 0 || b.HasPassed(seat) {
			t.Errorf("%s not reset", seat)
		}
	}
	if b.PlayerName(Top) != "Top" {
		t.Errorf("Expected name kept, got %q", b.PlayerName(Top))
	}
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	b := newTestBoard()
	b.Player(Top).HalfBoard[RowEffects] = []Card{Draw1(0)}
	b.Player(Bottom).CurrentRowsWon = 3
	err := b.CheckInvariants()
	if err == nil {
		t.Fatal("Expected invariant violations")
	}
}
