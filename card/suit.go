package card

import "strings"

const (
	Spades   = "spades"
	Hearts   = "hearts"
	Clubs    = "clubs"
	Diamonds = "diamonds"
)

// Suits lists the canonical suit names in wire order.
var Suits = []string{Spades, Hearts, Clubs, Diamonds}

// SuitLetter returns the uppercased first letter of a suit name,
// or "X" when the suit is empty. Unknown suits still yield their
// first letter so malformed input degrades instead of erroring.
func SuitLetter(suit string) string {
	trimmed := strings.TrimSpace(suit)
	if trimmed == "" {
		return "X"
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}

func suitFromRune(r rune) (string, bool) {
	switch r {
	case 's', 'S', '♠':
		return Spades, true
	case 'h', 'H', '♥':
		return Hearts, true
	case 'c', 'C', '♣':
		return Clubs, true
	case 'd', 'D', '♦':
		return Diamonds, true
	default:
		return "", false
	}
}
