package history

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"amlgate/internal/domain"
)

// InMemoryStore keeps history per user for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]domain.SearchHistoryEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[uuid.UUID][]domain.SearchHistoryEntry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry domain.SearchHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = append(s.entries[entry.UserID], entry)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.SearchHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries[userID]
	// Newest first, matching the postgres store's ordering.
	result := make([]domain.SearchHistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		result = append(result, entries[i])
	}
	return result, nil
}

func (s *InMemoryStore) ClearByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := int64(len(s.entries[userID]))
	delete(s.entries, userID)
	return removed, nil
}
