package game

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store holds the latest State per game id. Put replaces atomically
// by key; Get returns ErrNotFound for unknown ids.
type Store interface {
	Put(ctx context.Context, state State) error
	Get(ctx context.Context, gameID string) (State, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

const defaultMemoryLimit = 1024

// MemoryStore is the default in-process backend. It is LRU-bounded
// so long-running processes do not accumulate dead games forever.
type MemoryStore struct {
	games *lru.Cache[string, State]
}

func NewMemoryStore(limit int) (*MemoryStore, error) {
	if limit <= 0 {
		limit = defaultMemoryLimit
	}
	games, err := lru.New[string, State](limit)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{games: games}, nil
}

func (m *MemoryStore) Put(_ context.Context, state State) error {
	m.games.Add(state.GameID, state)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, gameID string) (State, error) {
	state, ok := m.games.Get(gameID)
	if !ok {
		return State{}, ErrNotFound
	}
	return state, nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	return m.games.Len(), nil
}

func (m *MemoryStore) Close() error { return nil }
