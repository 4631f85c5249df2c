package suggest

import (
	"fmt"
	"math/rand"
	"sync"
)

// mockInsights are the canned tactical lines served when the live
// agent path is unavailable. One is picked at random per response
// to keep the demo lively.
var mockInsights = []string{
	"🤖 Bedrock Strategy: Draw from closed deck to avoid revealing your strategy. Consider forming sequences with middle cards.",
	"🎯 AI Suggestion: Your hand shows potential for a hearts sequence. Pick the 6♥ if available, discard the King♠.",
	"💡 Bedrock Analysis: Form the 7-8-9 of spades sequence first. Discard face cards unless they complete sets.",
	"🎲 Strategic Advice: Focus on forming pure sequences first (mandatory for declaration). Middle cards (5-9) offer more flexibility than edge cards.",
	"🃏 Tactical Response: Use jokers wisely for high-value sets. Track opponent's picks/discards to predict their hand.",
}

// Picker selects fallback content from a caller-supplied random
// source, so tests can pin the selection.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

func (p *Picker) Insight() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return mockInsights[p.rng.Intn(len(mockInsights))]
}

// FallbackSuggestion synthesizes the substitute suggestion served
// when the agent call fails or is disabled. Fixed shape, populated
// with the already-computed hand description plus one picked insight.
func FallbackSuggestion(gameID, handDescription, insight string) string {
	return fmt.Sprintf(`🎯 Rummy Strategy Analysis for Game %s:

Based on your hand: %s

**Recommendation:**
1. **Draw Strategy**: Draw from closed deck to avoid revealing your strategy
2. **Discard Strategy**: Consider discarding high-value cards that don't fit into sequences
3. **Sequence Priority**: Focus on forming pure sequences first (mandatory for declaration)
4. **Joker Usage**: Save jokers for completing sets or impure sequences

**Key Insight**: %s

*Note: This is a demo response. Configure AWS Bedrock Agent for real AI analysis.*`,
		gameID, handDescription, insight)
}

// FallbackAdvice is the chat-relay counterpart: a picked insight,
// optionally prefixed with the reason the live path was skipped.
func FallbackAdvice(insight, reason string) string {
	if reason == "" {
		return insight
	}
	return fmt.Sprintf("[Mock Mode - %s] %s", reason, insight)
}
