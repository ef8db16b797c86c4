package game

const (
	InitialHandSize = 10
	RoundDrawSize   = 2
	RoundsToWin     = 2
	MaxRounds       = 3
)

// HalfBoard maps each board row to the cards placed in it, in play order.
type HalfBoard map[Row][]Card

// newHalfBoard builds fresh, unshared row containers. EFFECTS is present but
// stays empty: effect cards never occupy it.
func newHalfBoard() HalfBoard {
	return HalfBoard{
		RowFront:   []Card{},
		RowWise:    []Card{},
		RowSupport: []Card{},
		RowEffects: []Card{},
	}
}

// Count returns the number of cards across all rows.
func (hb HalfBoard) Count() int {
	n := 0
	for _, cards := range hb {
		n += len(cards)
	}
	return n
}

// clone returns a deep copy so callers cannot alias board rows.
func (hb HalfBoard) clone() HalfBoard {
	out := newHalfBoard()
	for row, cards := range hb {
		out[row] = append([]Card{}, cards...)
	}
	return out
}

// PlayerState represents one player's entire state.
type PlayerState struct {
	Name           string
	Deck           []Card // front of the slice is the next draw
	Hand           []Card
	HalfBoard      HalfBoard
	Graveyard      []Card
	Passed         bool
	CurrentRowsWon int
	RoundsWon      int
}

func newPlayerState(name string) *PlayerState {
	return &PlayerState{
		Name:      name,
		Deck:      []Card{},
		Hand:      []Card{},
		HalfBoard: newHalfBoard(),
		Graveyard: []Card{},
	}
}

// DeckCount returns the number of cards remaining in the deck.
func (p *PlayerState) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *PlayerState) HandCount() int {
	return len(p.Hand)
}

// CardCount returns the number of cards this player owns across deck, hand,
// board and graveyard.
func (p *PlayerState) CardCount() int {
	return len(p.Deck) + len(p.Hand) + p.HalfBoard.Count() + len(p.Graveyard)
}

// drawFromDeck moves up to n cards from the front of the deck to the hand.
// Returns the number of cards moved.
func (p *PlayerState) drawFromDeck(n int) int {
	drawn := min(len(p.Deck), max(n, 0))
	p.Hand = append(p.Hand, p.Deck[:drawn]...)
	p.Deck = append([]Card{}, p.Deck[drawn:]...)
	return drawn
}

// drawFromGraveyard moves up to n cards from the front of the graveyard to
// the hand. Returns the number of cards moved.
func (p *PlayerState) drawFromGraveyard(n int) int {
	drawn := min(len(p.Graveyard), max(n, 0))
	p.Hand = append(p.Hand, p.Graveyard[:drawn]...)
	p.Graveyard = append([]Card{}, p.Graveyard[drawn:]...)
	return drawn
}

// removeFromHand removes the card at index i. Removal is positional so that
// duplicate cards are handled correctly.
func (p *PlayerState) removeFromHand(i int) Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return card
}

// clearBoard moves every board card into the graveyard (FRONT, WISE, SUPPORT
// order) and installs fresh rows. Returns the number of cards moved.
func (p *PlayerState) clearBoard() int {
	moved := 0
	for _, row := range ScoredRows {
		p.Graveyard = append(p.Graveyard, p.HalfBoard[row]...)
		moved += len(p.HalfBoard[row])
	}
	p.HalfBoard = newHalfBoard()
	return moved
}

// resetRound clears the per-round flags.
func (p *PlayerState) resetRound() {
	p.CurrentRowsWon = 0
	p.Passed = false
}
