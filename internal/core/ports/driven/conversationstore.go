package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// ConversationStore persists per-session conversation state.
type ConversationStore interface {
	// Get retrieves a conversation by session id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Save stores or replaces a conversation.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Delete removes a conversation.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, sessionID string) error

	// List returns all live conversations.
	List(ctx context.Context) ([]domain.Conversation, error)

	// EvictIdle removes conversations idle since before the cutoff
	// and returns how many were removed.
	EvictIdle(ctx context.Context, cutoff time.Time) (int, error)
}
