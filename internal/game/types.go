package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// Row is a board lane a card can occupy or be restricted to.
type Row int

const (
	RowFront Row = iota + 1
	RowWise
	RowSupport
	RowEffects // terminal restriction for effect cards, never scored
	RowAny     // play-time restriction, resolved to a scored row
)

// ScoredRows are the three lanes that count towards won rows, in board order.
var ScoredRows = [3]Row{RowFront, RowWise, RowSupport}

func (r Row) String() string {
	switch r {
	case RowFront:
		return "FRONT"
	case RowWise:
		return "WISE"
	case RowSupport:
		return "SUPPORT"
	case RowEffects:
		return "EFFECTS"
	case RowAny:
		return "ANY"
	default:
		return "NONE"
	}
}

// IsScored reports whether cards in this row contribute to row scores.
func (r Row) IsScored() bool {
	return r == RowFront || r == RowWise || r == RowSupport
}

// SortPriority orders rows for display: SUPPORT > WISE > FRONT > other.
func (r Row) SortPriority() int {
	switch r {
	case RowSupport:
		return 3
	case RowWise:
		return 2
	case RowFront:
		return 1
	default:
		return 0
	}
}

// ParseRow converts a row name (case-insensitive) to a Row. An empty name
// parses as ANY.
func ParseRow(s string) (Row, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FRONT":
		return RowFront, nil
	case "WISE":
		return RowWise, nil
	case "SUPPORT":
		return RowSupport, nil
	case "EFFECTS":
		return RowEffects, nil
	case "ANY", "":
		return RowAny, nil
	}
	return 0, fmt.Errorf("unknown row %q", s)
}

// MarshalText encodes a row by name. An unset row encodes as "".
func (r Row) MarshalText() ([]byte, error) {
	if r == 0 {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a row name. "" decodes to the unset row.
func (r *Row) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = 0
		return nil
	}
	row, err := ParseRow(string(text))
	if err != nil {
		return err
	}
	*r = row
	return nil
}

// Seat identifies one of the two fixed board sides.
type Seat int

const (
	Top Seat = iota
	Bottom
)

// Seats lists both seats in board order.
var Seats = [2]Seat{Top, Bottom}

func (s Seat) String() string {
	if s == Bottom {
		return "bottom"
	}
	return "top"
}

// Opponent returns the other seat.
func (s Seat) Opponent() Seat {
	return 1 - s
}

// --- Card definition ---

// Card is an immutable card value. Two cards with equal fields are
// interchangeable.
type Card struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
	Row      Row    `json:"row,omitempty"` // zero means ANY
	Effect   Effect `json:"effect"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s (Str: %d, Row: %s)", c.Name, c.Strength, c.Restriction())
}

// Restriction returns the row restriction, treating an unset row as ANY.
func (c Card) Restriction() Row {
	if c.Row == 0 {
		return RowAny
	}
	return c.Row
}

// IsEffect reports whether playing the card triggers an effect instead of
// placing it on the board.
func (c Card) IsEffect() bool {
	return c.Effect.Kind != EffectNone
}

// Slot addresses one card on a half-board.
type Slot struct {
	Row   Row `json:"row"`
	Index int `json:"index"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s[%d]", s.Row, s.Index)
}

// Play is an already-decided card play.
type Play struct {
	HandIndex int
	Row       Row   // target row; RowAny resolves to the natural row or a random one
	Target    *Slot // opposing board slot, required by Burn
}
