package suggest

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"rummy-suggest/card"
	"rummy-suggest/internal/game"
)

type fakeAgent struct {
	reply   string
	err     error
	enabled bool
	invoked int
}

func (f *fakeAgent) Invoke(_ context.Context, _, _ string) (string, error) {
	f.invoked++
	return f.reply, f.err
}

func (f *fakeAgent) Enabled() bool { return f.enabled }

func newTestService(t *testing.T, ag *fakeAgent) (*Service, game.Store) {
	t.Helper()
	store, err := game.NewMemoryStore(0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc := NewService(store, ag, NewPicker(rand.New(rand.NewSource(1))))
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func testHand() []card.Card {
	return []card.Card{
		{Rank: "7", Suit: card.Hearts},
		{Rank: "8", Suit: card.Hearts},
		{Rank: "K", Suit: card.Spades},
	}
}

func TestSuggest_MissingGameID(t *testing.T) {
	svc, _ := newTestService(t, &fakeAgent{enabled: true})
	_, err := svc.Suggest(context.Background(), Request{PlayerHand: testHand()})
	if !errors.Is(err, ErrMissingGameID) {
		t.Fatalf("expected ErrMissingGameID, got %v", err)
	}
}

func TestSuggest_EmptyHand(t *testing.T) {
	svc, _ := newTestService(t, &fakeAgent{enabled: true})
	_, err := svc.Suggest(context.Background(), Request{GameID: "g1"})
	if !errors.Is(err, ErrEmptyHand) {
		t.Fatalf("expected ErrEmptyHand, got %v", err)
	}
}

func TestSuggest_LiveAgent(t *testing.T) {
	ag := &fakeAgent{enabled: true, reply: "Pick the 6 of hearts."}
	svc, _ := newTestService(t, ag)

	result, err := svc.Suggest(context.Background(), Request{GameID: "g1", PlayerHand: testHand()})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if result.Source != SourceAgent {
		t.Fatalf("expected live tag, got %q", result.Source)
	}
	if result.Suggestion != "Pick the 6 of hearts." {
		t.Fatalf("unexpected suggestion %q", result.Suggestion)
	}
	if result.GameID != "g1" {
		t.Fatalf("expected game id echoed, got %q", result.GameID)
	}
	if ag.invoked != 1 {
		t.Fatalf("expected single invoke, got %d", ag.invoked)
	}
}

func TestSuggest_AgentErrorFallsBack(t *testing.T) {
	ag := &fakeAgent{enabled: true, err: errors.New("access denied")}
	svc, _ := newTestService(t, ag)

	result, err := svc.Suggest(context.Background(), Request{GameID: "g1", PlayerHand: testHand()})
	if err != nil {
		t.Fatalf("agent failure must not surface: %v", err)
	}
	if result.Source != SourceMock {
		t.Fatalf("expected fallback tag, got %q", result.Source)
	}
	if result.Suggestion == "" {
		t.Fatalf("fallback suggestion must be non-empty")
	}
	if !strings.Contains(result.Suggestion, FormatHand(testHand())) {
		t.Fatalf("fallback should include the hand description:\n%s", result.Suggestion)
	}
}

func TestSuggest_DisabledAgentSkipsInvoke(t *testing.T) {
	ag := &fakeAgent{enabled: false}
	svc, _ := newTestService(t, ag)

	result, err := svc.Suggest(context.Background(), Request{GameID: "g1", PlayerHand: testHand()})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if result.Source != SourceMock {
		t.Fatalf("expected fallback tag, got %q", result.Source)
	}
	if ag.invoked != 0 {
		t.Fatalf("disabled agent should not be invoked, got %d calls", ag.invoked)
	}
}

func TestSuggest_EmptyCompletionFallsBack(t *testing.T) {
	ag := &fakeAgent{enabled: true, reply: ""}
	svc, _ := newTestService(t, ag)

	result, err := svc.Suggest(context.Background(), Request{GameID: "g1", PlayerHand: testHand()})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if result.Source != SourceMock || result.Suggestion == "" {
		t.Fatalf("expected non-empty fallback, got source=%q", result.Source)
	}
}

func TestSuggestForGame_Unknown(t *testing.T) {
	svc, _ := newTestService(t, &fakeAgent{enabled: true})
	_, err := svc.SuggestForGame(context.Background(), "never-registered")
	if !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected game.ErrNotFound, got %v", err)
	}
}

func TestSuggestForGame_ResolvesState(t *testing.T) {
	ag := &fakeAgent{enabled: false}
	svc, store := newTestService(t, ag)

	joker := card.Card{Rank: "A", Suit: card.Clubs}
	_ = store.Put(context.Background(), game.State{
		GameID:     "game_42",
		PlayerHand: testHand(),
		OpenDeck:   []card.Card{{Rank: "6", Suit: card.Hearts}},
		JokerCard:  &joker,
		GameStatus: game.StatusActive,
	})

	result, err := svc.SuggestForGame(context.Background(), "game_42")
	if err != nil {
		t.Fatalf("suggest for game: %v", err)
	}
	if result.GameID != "game_42" {
		t.Fatalf("expected stored game id, got %q", result.GameID)
	}
	if result.Source != SourceAgent && result.Source != SourceMock {
		t.Fatalf("unexpected provenance tag %q", result.Source)
	}
}

func TestAdvise(t *testing.T) {
	ag := &fakeAgent{enabled: true, reply: "Keep your pure sequence."}
	svc, _ := newTestService(t, ag)

	reply, source, err := svc.Advise(context.Background(), "should I keep the king?", "")
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if source != SourceAgent || reply != "Keep your pure sequence." {
		t.Fatalf("unexpected advise result %q / %q", reply, source)
	}

	if _, _, err := svc.Advise(context.Background(), "", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestPicker_DeterministicUnderFixedSource(t *testing.T) {
	a := NewPicker(rand.New(rand.NewSource(7)))
	b := NewPicker(rand.New(rand.NewSource(7)))
	for i := 0; i < 10; i++ {
		if x, y := a.Insight(), b.Insight(); x != y {
			t.Fatalf("picker diverged under identical sources: %q vs %q", x, y)
		}
	}
}
