package web

import (
	"fmt"

	"github.com/peterkuimelis/rowclash/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number   int            `json:"number"`
	Name     string         `json:"name"`
	Size     int            `json:"size"`
	Strength int            `json:"strength"`
	Cards    []DeckCardInfo `json:"cards"`
}

// DeckCardInfo is one entry of a deck list.
type DeckCardInfo struct {
	Name     string `json:"name"`
	Strength int    `json:"strength,omitempty"`
	Count    int    `json:"count"`
}

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Row         string `json:"row"`
	Effect      string `json:"effect,omitempty"`
	IsEffect    bool   `json:"isEffect,omitempty"`
}

func loadDecks(path string) ([]DeckInfo, error) {
	df, err := game.LoadDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, d := range df.Decks {
		cards := d.Build()
		di := DeckInfo{
			Number:   i + 1,
			Name:     d.Name,
			Size:     len(cards),
			Strength: game.DeckStrength(cards),
		}
		for _, c := range d.Cards {
			entry := DeckCardInfo{Name: c.Name, Count: c.Count}
			if !game.LookupCard(c.Name, c.Strength).IsEffect() {
				entry.Strength = c.Strength
			}
			di.Cards = append(di.Cards, entry)
		}
		decks = append(decks, di)
	}
	return decks, nil
}

func cardCatalog() []CardInfo {
	names := game.CardNames()
	cards := make([]CardInfo, 0, len(names))
	for _, name := range names {
		c := game.LookupCard(name, 0)
		ci := CardInfo{
			Name:        name,
			Description: describeCard(c),
			Row:         c.Restriction().String(),
			IsEffect:    c.IsEffect(),
		}
		if c.IsEffect() {
			ci.Effect = c.Effect.String()
		}
		cards = append(cards, ci)
	}
	return cards
}

func describeCard(c game.Card) string {
	if !c.IsEffect() {
		if c.Restriction() == game.RowAny {
			return "Unit. Can be placed in any scored row."
		}
		return fmt.Sprintf("Unit. Must be placed in %s.", c.Restriction())
	}
	switch c.Effect.Kind {
	case game.EffectDraw:
		return fmt.Sprintf("Draw %d card(s) from your deck. Strength %d.", c.Effect.Count, c.Strength)
	case game.EffectBurn:
		return "Remove a chosen card from your opponent's board for good."
	case game.EffectSummon:
		return "Draw a card from your deck and play it at once."
	case game.EffectRevive:
		return "Return a card from your graveyard and play it at once."
	}
	return ""
}
