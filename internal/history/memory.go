package history

import (
	"context"
	"sync"

	"docuchat/internal/model"
)

// MemoryStore is an in-process TurnStore for tests and redis-less dev runs.
type MemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]model.ConversationTurn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{turns: make(map[string][]model.ConversationTurn)}
}

func (s *MemoryStore) List(_ context.Context, sessionID string) ([]model.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	out := make([]model.ConversationTurn, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turn model.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, sessionID)
	return nil
}
