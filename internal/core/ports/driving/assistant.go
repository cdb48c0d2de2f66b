package driving

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// AssistantService answers user queries against the knowledge base,
// tracking conversation context per session.
type AssistantService interface {
	// Ask processes one user query within a session and returns the
	// answer, including escalation and citation detail.
	Ask(ctx context.Context, sessionID, query string) (*domain.Answer, error)

	// EndSession closes a session and discards its context.
	EndSession(ctx context.Context, sessionID string) error
}
