package driving

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// KnowledgeService loads and queries the knowledge base.
type KnowledgeService interface {
	// LoadAll ingests every knowledge source under dir: JSON
	// records plus extracted document text. The search index is
	// rebuilt atomically once loading completes.
	LoadAll(ctx context.Context, dir string) (*domain.LoadStats, error)

	// Search returns ranked results for a raw query.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// Suggest returns indexed-term completions for a prefix.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)

	// Stats summarises the live knowledge base.
	Stats(ctx context.Context) (*domain.KnowledgeStats, error)
}
