package driven

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// SearchIndex is the inverted keyword index over knowledge entries.
//
// Implementations must make Rebuild atomic with respect to Candidates:
// queries racing a rebuild see either the old snapshot or the new one,
// never a partial index.
type SearchIndex interface {
	// Rebuild replaces the active snapshot with one built from the
	// given entries.
	Rebuild(ctx context.Context, entries []domain.KnowledgeEntry) error

	// Candidates returns the union of entries matching any of the
	// terms, with the terms each entry matched.
	// Returns domain.ErrIndexNotReady before the first Rebuild.
	Candidates(ctx context.Context, terms []string) ([]domain.Candidate, error)

	// Terms returns indexed terms with the given prefix, for query
	// suggestions. Limit caps the result; 0 means no cap.
	Terms(ctx context.Context, prefix string, limit int) ([]string, error)

	// Ready reports whether a snapshot has been built.
	Ready() bool
}
