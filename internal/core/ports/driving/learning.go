package driving

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// LearningService captures knowledge from conversations and reports
// what has been learned and what is missing.
type LearningService interface {
	// Learn inspects a user statement for teachable content and, if
	// found, extracts and durably stores a fact. Returns nil when
	// the statement carries nothing to learn.
	Learn(ctx context.Context, sessionID, statement string) (*domain.LearnedFact, error)

	// Facts returns all learned facts for operator review.
	Facts(ctx context.Context) ([]domain.LearnedFact, error)

	// Gaps returns recorded knowledge gaps, most frequent first.
	Gaps(ctx context.Context) ([]domain.KnowledgeGap, error)
}
