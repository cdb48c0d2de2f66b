package driven

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// KnowledgeStore persists knowledge entries.
// Backed by SQLite for durable storage, with an in-memory
// implementation for tests.
type KnowledgeStore interface {
	// Upsert stores or replaces an entry by id. Returns true when
	// an existing entry was overwritten.
	Upsert(ctx context.Context, entry *domain.KnowledgeEntry) (bool, error)

	// Get retrieves an entry by id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error)

	// List returns all entries.
	List(ctx context.Context) ([]domain.KnowledgeEntry, error)

	// ListByCategory returns entries of one document type.
	ListByCategory(ctx context.Context, category domain.DocumentType) ([]domain.KnowledgeEntry, error)

	// Delete removes an entry by id.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Count returns the total number of entries.
	Count(ctx context.Context) (int, error)
}
