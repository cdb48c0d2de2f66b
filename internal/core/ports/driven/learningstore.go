package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// LearningStore persists learned facts and knowledge gaps.
//
// SaveFact must be durable before it returns: a fact is never
// acknowledged to the user until it has been written.
type LearningStore interface {
	// SaveFact stores a learned fact.
	SaveFact(ctx context.Context, fact *domain.LearnedFact) error

	// GetFact retrieves a fact by id.
	// Returns domain.ErrNotFound if it does not exist.
	GetFact(ctx context.Context, id string) (*domain.LearnedFact, error)

	// ListFacts returns all facts, superseded included.
	ListFacts(ctx context.Context) ([]domain.LearnedFact, error)

	// ActiveFacts returns facts not marked superseded.
	ActiveFacts(ctx context.Context) ([]domain.LearnedFact, error)

	// MarkUsed increments a fact's usage count and stamps LastUsed.
	MarkUsed(ctx context.Context, id string, when time.Time) error

	// Supersede marks a fact as replaced. The fact is kept for
	// audit but excluded from ActiveFacts.
	Supersede(ctx context.Context, id string) error

	// UpsertGap records an unanswered query. A gap with the same
	// normalized query increments in frequency instead of
	// duplicating.
	UpsertGap(ctx context.Context, gap *domain.KnowledgeGap) error

	// ListGaps returns all gaps, most frequent first.
	ListGaps(ctx context.Context) ([]domain.KnowledgeGap, error)
}
