// Package memory provides in-memory implementations of the driven
// storage ports. Used by tests and as the non-durable default when no
// database path is configured.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore is an in-memory implementation of driven.KnowledgeStore.
type KnowledgeStore struct {
	mu      sync.RWMutex
	entries map[string]domain.KnowledgeEntry
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		entries: make(map[string]domain.KnowledgeEntry),
	}
}

// Upsert stores or replaces an entry by id.
func (s *KnowledgeStore) Upsert(_ context.Context, entry *domain.KnowledgeEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.entries[entry.ID]
	s.entries[entry.ID] = *entry
	return existed, nil
}

// Get retrieves an entry by id.
func (s *KnowledgeStore) Get(_ context.Context, id string) (*domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// List returns all entries.
func (s *KnowledgeStore) List(_ context.Context) ([]domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.KnowledgeEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out, nil
}

// ListByCategory returns entries of one document type.
func (s *KnowledgeStore) ListByCategory(_ context.Context, category domain.DocumentType) ([]domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.KnowledgeEntry
	for _, entry := range s.entries {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Delete removes an entry by id.
func (s *KnowledgeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Count returns the total number of entries.
func (s *KnowledgeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
