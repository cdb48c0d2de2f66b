package parsers

import (
	"context"
	"sync"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/parsers/general"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry dispatches document text to the parser for its type,
// degrading to the paragraph fallback when the typed parser finds no
// structure.
type Registry struct {
	mu       sync.RWMutex
	parsers  map[domain.DocumentType]driven.DocumentParser
	fallback driven.DocumentParser
}

// NewRegistry creates a registry with the paragraph fallback wired in.
func NewRegistry() *Registry {
	return &Registry{
		parsers:  make(map[domain.DocumentType]driven.DocumentParser),
		fallback: general.New(),
	}
}

// Register adds a parser to the registry. A later registration for
// the same type replaces the earlier one.
func (r *Registry) Register(parser driven.DocumentParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[parser.Type()] = parser
}

// Parse runs the type's parser. When no parser is registered for the
// type, or the typed parser yields no sections, the paragraph
// fallback runs instead, so non-blank content always produces
// sections.
func (r *Registry) Parse(ctx context.Context, docType domain.DocumentType, title, content string) ([]domain.DocumentSection, error) {
	r.mu.RLock()
	parser, ok := r.parsers[docType]
	r.mu.RUnlock()

	if ok {
		sections, err := parser.Parse(ctx, title, content)
		if err != nil {
			return nil, err
		}
		if len(sections) > 0 {
			return sections, nil
		}
	}

	return r.fallback.Parse(ctx, title, content)
}
