package game

import (
	"fmt"
	"sort"
)

// CardRegistry maps card names to their constructor functions. Effect card
// constructors ignore the strength argument.
var CardRegistry = map[string]func(strength int) Card{
	"KNIGHT": Knight,
	"CLERIC": Cleric,
	"HEALER": Healer,
	"HERO":   Hero,
	"DRAW1":  Draw1,
	"DRAW2":  Draw2,
	"BURN":   Burn,
	"SUMMON": Summon,
	"REVIVE": Revive,
}

// LookupCard looks up a card by name and returns a new card value.
// Panics if the card is not found.
func LookupCard(name string, strength int) Card {
	ctor, ok := CardRegistry[name]
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return ctor(strength)
}

// CardNames returns the registered card names in sorted order.
func CardNames() []string {
	names := make([]string, 0, len(CardRegistry))
	for name := range CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
