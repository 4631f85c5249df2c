package game

import (
	"errors"

	"rummy-suggest/card"
)

// Status enumerates game lifecycle states as they appear on the wire.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusActive     Status = "active"
	StatusFinished   Status = "finished"
)

var ErrNotFound = errors.New("game not found")

// State is the latest known snapshot of an active game. It is
// registered by the caller and only ever read by the suggest
// pipeline; nothing here mutates it.
type State struct {
	GameID          string        `json:"gameId"`
	PlayerHand      []card.Card   `json:"playerHand"`
	OpenDeck        []card.Card   `json:"openDeck"`
	ClosedDeckCount int           `json:"closedDeckCount"`
	JokerCard       *card.Card    `json:"jokerCard,omitempty"`
	CurrentPlayer   string        `json:"currentPlayer,omitempty"`
	GameStatus      Status        `json:"gameStatus,omitempty"`
	PlayerMelds     [][]card.Card `json:"playerMelds,omitempty"`
}

// TopDiscard returns the top of the open deck, nil when empty.
func (s State) TopDiscard() *card.Card {
	if len(s.OpenDeck) == 0 {
		return nil
	}
	return &s.OpenDeck[len(s.OpenDeck)-1]
}
