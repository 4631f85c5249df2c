package suggest

import (
	"fmt"
	"strings"

	"rummy-suggest/card"
)

// StateFields carries the optional game-state context included in a
// prompt. Only the meld count is read, never meld contents.
type StateFields struct {
	JokerCard *card.Card
	MeldCount int
}

// FormatHand renders a hand as a comma-separated token list, e.g.
// "AS, 7H, 10D". An empty hand yields the "Empty hand" sentinel.
// Malformed cards degrade per card (see card.Token), never abort.
func FormatHand(hand []card.Card) string {
	if len(hand) == 0 {
		return "Empty hand"
	}
	tokens := make([]string, 0, len(hand))
	for _, c := range hand {
		tokens = append(tokens, c.Token())
	}
	return strings.Join(tokens, ", ")
}

// BuildPrompt produces the agent instruction for one game snapshot.
// Pure and deterministic: identical inputs yield byte-identical
// output, and no input can make it fail.
func BuildPrompt(hand []card.Card, openDeck []card.Card, fields StateFields) string {
	var sb strings.Builder

	sb.WriteString("You are an expert Rummy game strategist. Analyze this 13-card Indian Rummy hand and provide tactical advice.\n\n")
	sb.WriteString("Current Hand: ")
	sb.WriteString(FormatHand(hand))
	sb.WriteString("\n")

	if top := topDiscard(openDeck); top != nil {
		fmt.Fprintf(&sb, "Top discard: %s\n", top.Label())
	} else {
		sb.WriteString("Empty discard pile\n")
	}

	if fields.JokerCard != nil {
		fmt.Fprintf(&sb, "Joker: %s\n", fields.JokerCard.Label())
	}
	if fields.MeldCount > 0 {
		fmt.Fprintf(&sb, "Current melds formed: %d\n", fields.MeldCount)
	}

	sb.WriteString(`
Provide a strategic suggestion covering:
1. Whether to draw from closed deck or pick from discard pile (and why)
2. Which card to discard and the reasoning
3. Any possible sequences or sets you can form
4. Overall strategy assessment for this hand

Focus on:
- Pure sequence formation (mandatory for declaration)
- Efficient use of jokers
- Card retention strategy
- Minimizing points in unmatched cards

Be specific about card choices and explain your reasoning clearly.`)

	return sb.String()
}

func topDiscard(openDeck []card.Card) *card.Card {
	if len(openDeck) == 0 {
		return nil
	}
	return &openDeck[len(openDeck)-1]
}
