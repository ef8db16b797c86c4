package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card, its strength and its count in a deck.
// Strength is ignored for effect cards.
type CardEntry struct {
	Name     string `yaml:"name"`
	Strength int    `yaml:"strength"`
	Count    int    `yaml:"count"`
}

// LoadDeckFile reads and parses a YAML deck file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDecks(data)
}

// ParseDecks parses YAML deck data. Unknown card names are reported as
// errors rather than panics.
func ParseDecks(data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	for _, deck := range df.Decks {
		for _, entry := range deck.Cards {
			if _, ok := CardRegistry[entry.Name]; !ok {
				return nil, fmt.Errorf("deck %q: unknown card %q", deck.Name, entry.Name)
			}
			if entry.Count < 0 {
				return nil, fmt.Errorf("deck %q: negative count for %s", deck.Name, entry.Name)
			}
		}
	}
	return &df, nil
}

// Build expands the entry list into card values, in file order.
func (d DeckEntry) Build() []Card {
	var cards []Card
	for _, entry := range d.Cards {
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, LookupCard(entry.Name, entry.Strength))
		}
	}
	return cards
}

// ParseDeckFile parses a YAML deck file and returns a map of deck name → cards.
func ParseDeckFile(path string) (map[string][]Card, error) {
	df, err := LoadDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make(map[string][]Card, len(df.Decks))
	for _, deck := range df.Decks {
		decks[deck.Name] = deck.Build()
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (string, []Card, error) {
	df, err := LoadDeckFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	deck := df.Decks[n-1]
	return deck.Name, deck.Build(), nil
}

// DeckStrength sums card strengths. It is a reporting helper; deck budgets
// are not enforced.
func DeckStrength(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Strength
	}
	return total
}
