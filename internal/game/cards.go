package game

// Knight — strength card restricted to the FRONT row.
func Knight(strength int) Card {
	return Card{Name: "KNIGHT", Strength: strength, Row: RowFront}
}

// Cleric — strength card restricted to the WISE row.
func Cleric(strength int) Card {
	return Card{Name: "CLERIC", Strength: strength, Row: RowWise}
}

// Healer — strength card restricted to the SUPPORT row.
func Healer(strength int) Card {
	return Card{Name: "HEALER", Strength: strength, Row: RowSupport}
}

// Hero — strength card playable in any scored row.
func Hero(strength int) Card {
	return Card{Name: "HERO", Strength: strength, Row: RowAny}
}

// Draw1 — effect card. Draw 1 card.
func Draw1(int) Card {
	return Card{Name: "DRAW1", Strength: 1, Row: RowEffects, Effect: DrawEffect(1)}
}

// Draw2 — effect card. Draw 2 cards.
func Draw2(int) Card {
	return Card{Name: "DRAW2", Strength: 2, Row: RowEffects, Effect: DrawEffect(2)}
}

// Burn — effect card. Remove one opposing board card from the game.
func Burn(int) Card {
	return Card{Name: "BURN", Row: RowEffects, Effect: BurnEffect()}
}

// Summon — effect card. Draw one card and play it into its natural row.
func Summon(int) Card {
	return Card{Name: "SUMMON", Row: RowEffects, Effect: SummonEffect()}
}

// Revive — effect card. Return the oldest graveyard card to hand and play it.
func Revive(int) Card {
	return Card{Name: "REVIVE", Row: RowEffects, Effect: ReviveEffect()}
}

// NewEffectCard builds a custom effect card. The row is always EFFECTS.
func NewEffectCard(name string, effect Effect) Card {
	strength := 0
	if effect.Kind == EffectDraw {
		strength = effect.Count
	}
	return Card{Name: name, Strength: strength, Row: RowEffects, Effect: effect}
}
