package session

import (
	"context"
	"sync"

	"fuelbot/internal/nlp"
)

// MemoryStore is a process-local Store guarded by a RWMutex. State lives for
// the process lifetime only.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[string]nlp.Category
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{categories: make(map[string]nlp.Category)}
}

func (s *MemoryStore) Remember(_ context.Context, sender string, category nlp.Category) error {
	s.mu.Lock()
	s.categories[sender] = category
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sender string) (nlp.Category, bool, error) {
	s.mu.RLock()
	category, ok := s.categories[sender]
	s.mu.RUnlock()
	return category, ok, nil
}

func (s *MemoryStore) Forget(_ context.Context, sender string) error {
	s.mu.Lock()
	delete(s.categories, sender)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
