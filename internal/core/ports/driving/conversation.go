package driving

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// ConversationService exposes per-session dialogue state.
type ConversationService interface {
	// History returns a session's conversation.
	History(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Summary returns a short textual summary of a session's recent
	// turns, suitable for a hand-off note.
	Summary(ctx context.Context, sessionID string) (string, error)
}
