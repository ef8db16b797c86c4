package game

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the parent of every precondition violation. A move that
// fails with an error wrapping it leaves the board untouched.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrInvalidHandIndex = fmt.Errorf("%w: hand index out of range", ErrInvalidMove)
	ErrInvalidRow       = fmt.Errorf("%w: row not playable", ErrInvalidMove)
	ErrRowRestricted    = fmt.Errorf("%w: card is restricted to another row", ErrInvalidMove)
	ErrTargetRequired   = fmt.Errorf("%w: effect requires a target", ErrInvalidMove)
	ErrInvalidTarget    = fmt.Errorf("%w: no card at target", ErrInvalidMove)
)
