package suggest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rummy-suggest/card"
	"rummy-suggest/internal/agent"
	"rummy-suggest/internal/game"
)

// Provenance tags distinguishing a live agent answer from a locally
// synthesized fallback.
const (
	SourceAgent = "bedrock-agent"
	SourceMock  = "bedrock-mock"
)

var (
	ErrMissingGameID = errors.New("gameId is required")
	ErrEmptyHand     = errors.New("playerHand is required")
	ErrEmptyMessage  = errors.New("message is required")
)

// Request is the transient input of one suggestion, either supplied
// directly by the caller or resolved from the game store.
type Request struct {
	GameID     string
	PlayerHand []card.Card
	OpenDeck   []card.Card
	JokerCard  *card.Card
	MeldCount  int
	SessionID  string
}

// Result always carries a non-empty suggestion once validation has
// passed; agent failures degrade to fallback content, never to an
// error.
type Result struct {
	GameID     string
	Suggestion string
	Source     string
	Timestamp  time.Time
}

// Service orchestrates validation, prompt construction, the agent
// call and its fallback policy.
type Service struct {
	store  game.Store
	agent  agent.Client
	picker *Picker
	now    func() time.Time
}

func NewService(store game.Store, agentClient agent.Client, picker *Picker) *Service {
	return &Service{
		store:  store,
		agent:  agentClient,
		picker: picker,
		now:    time.Now,
	}
}

// Suggest runs the stateless pipeline on a caller-supplied snapshot.
func (s *Service) Suggest(ctx context.Context, req Request) (Result, error) {
	if req.GameID == "" {
		return Result{}, ErrMissingGameID
	}
	if len(req.PlayerHand) == 0 {
		return Result{}, ErrEmptyHand
	}

	prompt := BuildPrompt(req.PlayerHand, req.OpenDeck, StateFields{
		JokerCard: req.JokerCard,
		MeldCount: req.MeldCount,
	})

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = agent.NewSessionID()
	}

	suggestion, source := s.invoke(ctx, sessionID, prompt, func() string {
		return FallbackSuggestion(req.GameID, FormatHand(req.PlayerHand), s.picker.Insight())
	})

	return Result{
		GameID:     req.GameID,
		Suggestion: suggestion,
		Source:     source,
		Timestamp:  s.now(),
	}, nil
}

// SuggestForGame runs the stateful pipeline: resolve the snapshot by
// game id, then suggest. Unknown ids surface game.ErrNotFound.
func (s *Service) SuggestForGame(ctx context.Context, gameID string) (Result, error) {
	if gameID == "" {
		return Result{}, ErrMissingGameID
	}
	state, err := s.store.Get(ctx, gameID)
	if err != nil {
		return Result{}, err
	}
	return s.Suggest(ctx, Request{
		GameID:     state.GameID,
		PlayerHand: state.PlayerHand,
		OpenDeck:   state.OpenDeck,
		JokerCard:  state.JokerCard,
		MeldCount:  len(state.PlayerMelds),
	})
}

const adviceSystemPrompt = `You are an expert Rummy game strategist and teacher. Provide clear, actionable advice about 13-card Indian Rummy. Focus on:
- Pure sequence formation (mandatory)
- Sets and impure sequences
- Card retention strategies
- Joker usage
- Opponent analysis

Be concise but comprehensive in your advice.`

// Advise relays a free-text question to the agent under the rummy
// coaching system prompt. Same fallback policy as Suggest.
func (s *Service) Advise(ctx context.Context, message, sessionID string) (reply, source string, err error) {
	if strings.TrimSpace(message) == "" {
		return "", "", ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = agent.NewSessionID()
	}
	prompt := fmt.Sprintf("%s\n\nUser: %s", adviceSystemPrompt, message)
	reply, source = s.invoke(ctx, sessionID, prompt, func() string {
		return FallbackAdvice(s.picker.Insight(), "")
	})
	return reply, source, nil
}

// invoke runs the agent call with the pipeline's core policy: any
// agent failure, including a client that was never configured, is
// absorbed into the fallback path with the mock provenance tag.
func (s *Service) invoke(ctx context.Context, sessionID, prompt string, fallback func() string) (string, string) {
	if !s.agent.Enabled() {
		return fallback(), SourceMock
	}
	completion, err := s.agent.Invoke(ctx, sessionID, prompt)
	if err != nil {
		log.Printf("[Suggest] Agent invoke failed, serving fallback: %v", err)
		return fallback(), SourceMock
	}
	if completion == "" {
		log.Printf("[Suggest] Agent returned empty completion, serving fallback")
		return fallback(), SourceMock
	}
	return completion, SourceAgent
}
