package game

import (
	"fmt"
	"strings"
)

// EffectKind categorizes effect cards. The set is closed: every switch over
// EffectKind must handle all variants.
type EffectKind int

const (
	EffectNone   EffectKind = iota
	EffectDraw              // owner draws Count cards from the deck
	EffectBurn              // owner removes one opposing board card permanently
	EffectSummon            // owner draws one card and plays it into its natural row
	EffectRevive            // owner returns one graveyard card to hand and plays it
)

// MaxEffectDepth bounds how many effect cards a single play may resolve in
// sequence. A summoned or revived effect card beyond this depth stays in hand.
const MaxEffectDepth = 1

func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "NONE"
	case EffectDraw:
		return "DRAW"
	case EffectBurn:
		return "BURN"
	case EffectSummon:
		return "SUMMON"
	case EffectRevive:
		return "REVIVE"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// ParseEffectKind converts an effect name (case-insensitive) to an EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return EffectNone, nil
	case "DRAW":
		return EffectDraw, nil
	case "BURN":
		return EffectBurn, nil
	case "SUMMON":
		return EffectSummon, nil
	case "REVIVE":
		return EffectRevive, nil
	}
	return EffectNone, fmt.Errorf("unknown effect %q", s)
}

func (k EffectKind) MarshalText() ([]byte, error) {
	if k == EffectNone {
		return []byte{}, nil
	}
	return []byte(k.String()), nil
}

func (k *EffectKind) UnmarshalText(text []byte) error {
	kind, err := ParseEffectKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Effect is the payload of an effect card. Count is only meaningful for
// EffectDraw.
type Effect struct {
	Kind  EffectKind `json:"kind,omitempty"`
	Count int        `json:"count,omitempty"`
}

func (e Effect) String() string {
	if e.Kind == EffectDraw {
		return fmt.Sprintf("DRAW(%d)", e.Count)
	}
	return e.Kind.String()
}

// NeedsTarget reports whether activating the effect requires choosing an
// opposing board slot.
func (e Effect) NeedsTarget() bool {
	return e.Kind == EffectBurn
}

// DrawEffect returns a Draw(n) effect.
func DrawEffect(n int) Effect { return Effect{Kind: EffectDraw, Count: n} }

// BurnEffect returns a Burn effect.
func BurnEffect() Effect { return Effect{Kind: EffectBurn} }

// SummonEffect returns a Summon effect.
func SummonEffect() Effect { return Effect{Kind: EffectSummon} }

// ReviveEffect returns a Revive effect.
func ReviveEffect() Effect { return Effect{Kind: EffectRevive} }
