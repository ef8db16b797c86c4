package game

import (
	"fmt"
	"math/rand"
)

// PlayerSnapshot is the serializable form of a PlayerState.
type PlayerSnapshot struct {
	Name      string         `json:"name"`
	Deck      []Card         `json:"deck"`
	Hand      []Card         `json:"hand"`
	Rows      map[Row][]Card `json:"rows"`
	Graveyard []Card         `json:"graveyard"`
	Passed    bool           `json:"passed"`
	RowsWon   int            `json:"rows_won"`
	RoundsWon int            `json:"rounds_won"`
}

// Snapshot captures the full board state so a game can be saved and resumed.
type Snapshot struct {
	Round   int               `json:"round"`
	Players [2]PlayerSnapshot `json:"players"`
}

// Snapshot returns a deep copy of the board state.
func (b *Board) Snapshot() Snapshot {
	snap := Snapshot{Round: b.round}
	for _, seat := range Seats {
		p := b.players[seat]
		snap.Players[seat] = PlayerSnapshot{
			Name:      p.Name,
			Deck:      append([]Card{}, p.Deck...),
			Hand:      append([]Card{}, p.Hand...),
			Rows:      map[Row][]Card(p.HalfBoard.clone()),
			Graveyard: append([]Card{}, p.Graveyard...),
			Passed:    p.Passed,
			RowsWon:   p.CurrentRowsWon,
			RoundsWon: p.RoundsWon,
		}
	}
	return snap
}

// RestoreBoard rebuilds a board from a snapshot. The rows-won cache is
// recomputed rather than trusted; a snapshot that breaks board invariants is
// rejected.
func RestoreBoard(snap Snapshot, rng *rand.Rand) (*Board, error) {
	b := NewBoard(snap.Players[Top].Name, snap.Players[Bottom].Name, rng)
	b.round = snap.Round
	for _, seat := range Seats {
		ps := snap.Players[seat]
		p := b.players[seat]
		p.Deck = append([]Card{}, ps.Deck...)
		p.Hand = append([]Card{}, ps.Hand...)
		p.Graveyard = append([]Card{}, ps.Graveyard...)
		for row, cards := range ps.Rows {
			if !row.IsScored() && row != RowEffects {
				return nil, fmt.Errorf("restore board: %s has cards in row %s", ps.Name, row)
			}
			p.HalfBoard[row] = append([]Card{}, cards...)
		}
		p.Passed = ps.Passed
		p.RoundsWon = ps.RoundsWon
	}
	b.updateWonRows()
	if err := b.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("restore board: %w", err)
	}
	return b, nil
}
