package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]domain.Conversation),
	}
}

// Get retrieves a conversation by session id.
func (s *ConversationStore) Get(_ context.Context, sessionID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conv, nil
}

// Save stores or replaces a conversation.
func (s *ConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.SessionID] = *conv
	return nil
}

// Delete removes a conversation.
func (s *ConversationStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[sessionID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.conversations, sessionID)
	return nil
}

// List returns all live conversations.
func (s *ConversationStore) List(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv)
	}
	return out, nil
}

// EvictIdle removes conversations idle since before the cutoff.
func (s *ConversationStore) EvictIdle(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, conv := range s.conversations {
		if conv.LastActive.Before(cutoff) {
			delete(s.conversations, id)
			evicted++
		}
	}
	return evicted, nil
}
