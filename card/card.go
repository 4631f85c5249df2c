package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card as it travels on the wire.
// Rank is symbolic ("A".."K", "2".."10"), Suit is one of the
// canonical suit names. Value carries the rummy point count; a
// zero Value falls back to the derived count (see Points).
type Card struct {
	ID    string `json:"id,omitempty"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Value int    `json:"value,omitempty"`
}

// Token renders the compact form used in prompts: rank followed by
// the uppercased first letter of the suit, e.g. "AS" for the ace of
// spades. A missing suit yields the "X" sentinel letter.
func (c Card) Token() string {
	return c.Rank + SuitLetter(c.Suit)
}

// Label renders the long form, e.g. "A of spades".
func (c Card) Label() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Points returns the rummy point count of the card: the explicit
// Value when set, otherwise derived from the rank (face cards and
// aces count 10, number cards their face value).
func (c Card) Points() int {
	if c.Value > 0 {
		return c.Value
	}
	return rankPoints(c.Rank)
}

func (c Card) String() string {
	return c.Token()
}

// WellFormed reports whether the card carries both a rank and a suit.
func (c Card) WellFormed() bool {
	return strings.TrimSpace(c.Rank) != "" && strings.TrimSpace(c.Suit) != ""
}

func rankPoints(rank string) int {
	switch strings.ToUpper(strings.TrimSpace(rank)) {
	case "A", "K", "Q", "J", "T", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// Parse converts a compact card string (e.g. "7h", "10d", "As",
// "Kspades") into a Card. It accepts single-letter and full suit
// name suffixes.
func Parse(cardStr string) (Card, error) {
	trimmed := strings.TrimSpace(cardStr)
	if len(trimmed) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", cardStr)
	}

	// Full suit name suffix first ("Kspades"), then single rune.
	lower := strings.ToLower(trimmed)
	for _, suit := range Suits {
		if strings.HasSuffix(lower, suit) && len(trimmed) > len(suit) {
			rank, err := normalizeRank(trimmed[:len(trimmed)-len(suit)])
			if err != nil {
				return Card{}, err
			}
			return Card{Rank: rank, Suit: suit}, nil
		}
	}

	runes := []rune(trimmed)
	suit, ok := suitFromRune(runes[len(runes)-1])
	if !ok {
		return Card{}, fmt.Errorf("invalid suit in card string: %q", cardStr)
	}
	rank, err := normalizeRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func normalizeRank(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToUpper(trimmed) {
	case "A":
		return "A", nil
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return trimmed, nil
	case "T", "10":
		return "10", nil
	case "J":
		return "J", nil
	case "Q":
		return "Q", nil
	case "K":
		return "K", nil
	default:
		return "", fmt.Errorf("invalid rank: %q", raw)
	}
}
