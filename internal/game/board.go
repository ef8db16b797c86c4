package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/peterkuimelis/rowclash/internal/log"
)

// Board is the complete state of a game between the top and bottom players.
// It is not safe for concurrent use; a single driver owns it.
type Board struct {
	players [2]*PlayerState
	round   int
	rng     *rand.Rand
	logger  log.EventLogger
}

// NewBoard creates an empty board in round 1. All shuffles and ANY-row
// resolutions draw from rng; a nil rng is seeded from the clock.
func NewBoard(topName, bottomName string, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Board{
		players: [2]*PlayerState{newPlayerState(topName), newPlayerState(bottomName)},
		round:   1,
		rng:     rng,
	}
}

// SetLogger attaches an event logger. A nil logger discards events.
func (b *Board) SetLogger(l log.EventLogger) {
	b.logger = l
}

func (b *Board) log(e log.GameEvent) {
	if b.logger != nil {
		b.logger.Log(e)
	}
}

// Player returns the live state for a seat. Callers outside the package
// should prefer the copying accessors.
func (b *Board) Player(seat Seat) *PlayerState {
	return b.players[seat]
}

func (b *Board) Round() int                 { return b.round }
func (b *Board) PlayerName(seat Seat) string { return b.players[seat].Name }
func (b *Board) HasPassed(seat Seat) bool    { return b.players[seat].Passed }
func (b *Board) RoundsWon(seat Seat) int     { return b.players[seat].RoundsWon }
func (b *Board) CardCount(seat Seat) int     { return b.players[seat].CardCount() }
func (b *Board) RowsWon(seat Seat) int       { return b.players[seat].CurrentRowsWon }

// Hand returns a copy of the seat's hand.
func (b *Board) Hand(seat Seat) []Card {
	return append([]Card{}, b.players[seat].Hand...)
}

// Deck returns a copy of the seat's deck, front first.
func (b *Board) Deck(seat Seat) []Card {
	return append([]Card{}, b.players[seat].Deck...)
}

// Graveyard returns a copy of the seat's graveyard, front first.
func (b *Board) Graveyard(seat Seat) []Card {
	return append([]Card{}, b.players[seat].Graveyard...)
}

// HalfBoard returns a deep copy of the seat's rows.
func (b *Board) HalfBoard(seat Seat) HalfBoard {
	return b.players[seat].HalfBoard.clone()
}

// --- Card movement ---

// SetDeck replaces the seat's deck wholesale.
func (b *Board) SetDeck(seat Seat, cards []Card) {
	b.players[seat].Deck = append([]Card{}, cards...)
}

// DrawCardsToHand optionally shuffles the seat's deck, then moves up to n
// cards from its front into the hand. Returns the number drawn.
func (b *Board) DrawCardsToHand(seat Seat, n int, shuffle bool) int {
	p := b.players[seat]
	if shuffle && len(p.Deck) > 1 {
		b.rng.Shuffle(len(p.Deck), func(i, j int) {
			p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
		})
		b.log(log.NewShuffleEvent(b.round, int(seat), p.Name))
	}
	drawn := p.drawFromDeck(n)
	if drawn > 0 {
		b.log(log.NewDrawEvent(b.round, int(seat), p.Name, drawn, "deck"))
	}
	return drawn
}

// DrawCardsFromGraveyard moves up to n cards from the front of the seat's
// graveyard into the hand. Returns the number drawn.
func (b *Board) DrawCardsFromGraveyard(seat Seat, n int) int {
	p := b.players[seat]
	drawn := p.drawFromGraveyard(n)
	if drawn > 0 {
		b.log(log.NewDrawEvent(b.round, int(seat), p.Name, drawn, "graveyard"))
	}
	return drawn
}

// RemoveCardFromBoard removes and returns the card at index in the seat's
// row. The card leaves the game; it is not graveyarded.
func (b *Board) RemoveCardFromBoard(seat Seat, row Row, index int) (Card, error) {
	cards := b.players[seat].HalfBoard[row]
	if index < 0 || index >= len(cards) {
		return Card{}, fmt.Errorf("%w: %s[%d] on %s's board", ErrInvalidTarget, row, index, b.players[seat].Name)
	}
	card := cards[index]
	b.players[seat].HalfBoard[row] = append(cards[:index:index], cards[index+1:]...)
	b.updateWonRows()
	return card, nil
}

// --- Playing ---

// PlayCard plays the card at play.HandIndex from the seat's hand. Non-effect
// cards are placed into play.Row; effect cards resolve and then go to the
// graveyard. On error the board is unchanged.
func (b *Board) PlayCard(seat Seat, play Play) error {
	p := b.players[seat]
	if play.HandIndex < 0 || play.HandIndex >= len(p.Hand) {
		return fmt.Errorf("%w: %d with %d card(s) in hand", ErrInvalidHandIndex, play.HandIndex, len(p.Hand))
	}
	card := p.Hand[play.HandIndex]

	if card.IsEffect() {
		if err := b.checkEffectPlay(seat, card, play); err != nil {
			return err
		}
		p.removeFromHand(play.HandIndex)
		b.activate(seat, card, play.Target)
	} else {
		row, err := b.placementRow(card, play.Row)
		if err != nil {
			return err
		}
		p.removeFromHand(play.HandIndex)
		b.place(seat, card, row)
	}

	b.updateWonRows()
	return nil
}

// placementRow resolves the row a non-effect card lands in.
func (b *Board) placementRow(card Card, chosen Row) (Row, error) {
	restriction := card.Restriction()
	if restriction == RowEffects {
		return 0, fmt.Errorf("%w: %s has no board row", ErrInvalidRow, card.Name)
	}
	if chosen == 0 || chosen == RowAny {
		if restriction.IsScored() {
			return restriction, nil
		}
		return ScoredRows[b.rng.Intn(len(ScoredRows))], nil
	}
	if !chosen.IsScored() {
		return 0, fmt.Errorf("%w: %s cannot go to %s", ErrInvalidRow, card.Name, chosen)
	}
	if restriction.IsScored() && chosen != restriction {
		return 0, fmt.Errorf("%w: %s belongs in %s, not %s", ErrRowRestricted, card.Name, restriction, chosen)
	}
	return chosen, nil
}

// checkEffectPlay validates row and target for an effect card before any
// state changes.
func (b *Board) checkEffectPlay(seat Seat, card Card, play Play) error {
	switch play.Row {
	case 0, RowAny, RowEffects:
	default:
		return fmt.Errorf("%w: %s belongs in %s, not %s", ErrRowRestricted, card.Name, RowEffects, play.Row)
	}
	if !card.Effect.NeedsTarget() {
		return nil
	}
	opp := b.players[seat.Opponent()]
	if play.Target == nil {
		if opp.HalfBoard.Count() > 0 {
			return fmt.Errorf("%w: %s", ErrTargetRequired, card.Name)
		}
		return nil
	}
	t := *play.Target
	if !t.Row.IsScored() || t.Index < 0 || t.Index >= len(opp.HalfBoard[t.Row]) {
		return fmt.Errorf("%w: %s on %s's board", ErrInvalidTarget, t, opp.Name)
	}
	return nil
}

func (b *Board) place(seat Seat, card Card, row Row) {
	p := b.players[seat]
	p.HalfBoard[row] = append(p.HalfBoard[row], card)
	b.log(log.NewPlayEvent(b.round, int(seat), p.Name, card.Name, card.Strength, row.String()))
}

// --- Passing and rounds ---

// PassRound marks the seat as done for the current round.
func (b *Board) PassRound(seat Seat) {
	b.players[seat].Passed = true
	b.log(log.NewPassEvent(b.round, int(seat), b.players[seat].Name))
}

// BothPassed reports whether the current round is over.
func (b *Board) BothPassed() bool {
	return b.players[Top].Passed && b.players[Bottom].Passed
}

// RoundResult summarizes a finished round.
type RoundResult struct {
	Round      int  `json:"round"`
	TopRows    int  `json:"top_rows"`
	BottomRows int  `json:"bottom_rows"`
	TopWon     bool `json:"top_won"`
	BottomWon  bool `json:"bottom_won"`
}

// EndRound awards the round, graveyards both boards and advances the round
// number. A tie in won rows awards the round to both players. Drawing for
// the next round is left to the caller.
func (b *Board) EndRound() RoundResult {
	top, bottom := b.players[Top], b.players[Bottom]
	res := RoundResult{
		Round:      b.round,
		TopRows:    top.CurrentRowsWon,
		BottomRows: bottom.CurrentRowsWon,
	}
	if top.CurrentRowsWon >= bottom.CurrentRowsWon {
		top.RoundsWon++
		res.TopWon = true
	}
	if bottom.CurrentRowsWon >= top.CurrentRowsWon {
		bottom.RoundsWon++
		res.BottomWon = true
	}

	var winners []string
	if res.TopWon {
		winners = append(winners, top.Name)
	}
	if res.BottomWon {
		winners = append(winners, bottom.Name)
	}
	b.log(log.NewRoundEndEvent(b.round, top.Name, res.TopRows, bottom.Name, res.BottomRows, winners))

	for _, seat := range Seats {
		p := b.players[seat]
		if moved := p.clearBoard(); moved > 0 {
			b.log(log.NewSendToGraveyardEvent(b.round, int(seat), p.Name, moved))
		}
		p.resetRound()
	}
	b.round++
	return res
}

// --- Termination ---

// GameEnded reports whether all rounds are played or a player has won
// enough rounds.
func (b *Board) GameEnded() bool {
	return b.round > MaxRounds ||
		b.players[Top].RoundsWon >= RoundsToWin ||
		b.players[Bottom].RoundsWon >= RoundsToWin
}

// Winner compares rounds won. Equal counts make both players winners.
func (b *Board) Winner() (top, bottom bool) {
	t, bt := b.players[Top].RoundsWon, b.players[Bottom].RoundsWon
	return t >= bt, bt >= t
}

// --- Choices ---

// ValidChoices returns the hand indices the seat may attempt to play. Every
// card in hand is a legal attempt.
func (b *Board) ValidChoices(seat Seat) []int {
	choices := make([]int, len(b.players[seat].Hand))
	for i := range choices {
		choices[i] = i
	}
	return choices
}

// ValidRows returns the rows the card at handIndex may be played into.
func (b *Board) ValidRows(seat Seat, handIndex int) []Row {
	hand := b.players[seat].Hand
	if handIndex < 0 || handIndex >= len(hand) {
		return nil
	}
	card := hand[handIndex]
	if card.IsEffect() {
		return []Row{RowEffects}
	}
	switch r := card.Restriction(); {
	case r == RowEffects:
		return nil
	case r.IsScored():
		return []Row{r}
	}
	return append([]Row{}, ScoredRows[:]...)
}

// BurnTargets lists the opposing board slots a Burn played by seat may hit.
func (b *Board) BurnTargets(seat Seat) []Slot {
	opp := b.players[seat.Opponent()]
	var slots []Slot
	for _, row := range ScoredRows {
		for i := range opp.HalfBoard[row] {
			slots = append(slots, Slot{Row: row, Index: i})
		}
	}
	return slots
}

// --- Invariants ---

// CheckInvariants verifies the structural rules the board maintains between
// calls. It returns all violations joined.
func (b *Board) CheckInvariants() error {
	var errs []error
	if b.round < 1 || b.round > MaxRounds+1 {
		errs = append(errs, fmt.Errorf("round %d outside [1, %d]", b.round, MaxRounds+1))
	}
	top, bottom := b.WonRows()
	want := [2]int{top, bottom}
	for _, seat := range Seats {
		p := b.players[seat]
		if n := len(p.HalfBoard[RowEffects]); n != 0 {
			errs = append(errs, fmt.Errorf("%s: %d card(s) in EFFECTS row", p.Name, n))
		}
		for row := range p.HalfBoard {
			if !row.IsScored() && row != RowEffects {
				errs = append(errs, fmt.Errorf("%s: unexpected board row %s", p.Name, row))
			}
		}
		for _, row := range ScoredRows {
			for _, c := range p.HalfBoard[row] {
				if c.IsEffect() {
					errs = append(errs, fmt.Errorf("%s: effect card %s on %s", p.Name, c.Name, row))
				}
			}
		}
		if p.CurrentRowsWon != want[seat] {
			errs = append(errs, fmt.Errorf("%s: rows won cache %d, scored %d", p.Name, p.CurrentRowsWon, want[seat]))
		}
		if p.RoundsWon < 0 || p.RoundsWon > MaxRounds {
			errs = append(errs, fmt.Errorf("%s: rounds won %d out of range", p.Name, p.RoundsWon))
		}
	}
	return errors.Join(errs...)
}

// Reset empties both players' containers and counters, keeping names, and
// returns to round 1.
func (b *Board) Reset() {
	for i, p := range b.players {
		b.players[i] = newPlayerState(p.Name)
	}
	b.round = 1
}
