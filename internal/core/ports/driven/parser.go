package driven

import (
	"context"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// DocumentClassifier assigns a document type to an incoming document
// from its filename and content.
type DocumentClassifier interface {
	// Classify determines the document type. The filename wins
	// outright when it names a type; content heuristics otherwise.
	Classify(filename, content string) domain.Classification
}

// DocumentParser extracts structured sections from extracted document
// text. Each parser handles one document type.
type DocumentParser interface {
	// Type returns the document type this parser handles.
	Type() domain.DocumentType

	// Parse splits document text into sections. A parser that finds
	// none of its structure returns an empty slice; the registry
	// then degrades to the paragraph fallback.
	Parse(ctx context.Context, title, content string) ([]domain.DocumentSection, error)
}

// ParserRegistry selects the appropriate parser for a document type.
type ParserRegistry interface {
	// Parse runs the type's parser, degrading to the paragraph
	// fallback when the typed parser yields no sections.
	Parse(ctx context.Context, docType domain.DocumentType, title, content string) ([]domain.DocumentSection, error)

	// Register adds a parser to the registry.
	Register(parser DocumentParser)
}
