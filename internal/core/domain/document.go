package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DocumentType classifies a source document's structure.
type DocumentType string

// Supported document types, in classification priority order.
const (
	DocTypeFAQ       DocumentType = "faq"
	DocTypePolicy    DocumentType = "policy"
	DocTypeProcedure DocumentType = "procedure"
	DocTypeManual    DocumentType = "manual"
	DocTypeGeneral   DocumentType = "general"
)

// DocumentTypes returns all supported types in priority order.
// The order matters: classification ties are broken by position.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocTypeFAQ, DocTypePolicy, DocTypeProcedure, DocTypeManual, DocTypeGeneral}
}

// ParseDocumentType validates a category string from source metadata.
func ParseDocumentType(s string) (DocumentType, error) {
	for _, t := range DocumentTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: category %q", ErrUnsupportedType, s)
}

// SourceType identifies where a knowledge entry came from.
type SourceType string

const (
	// SourceJSON is a hand-authored JSON knowledge record.
	SourceJSON SourceType = "json"

	// SourceDocument is a section parsed from extracted document text.
	SourceDocument SourceType = "pdf"

	// SourceLearned is a fact captured from a conversation.
	SourceLearned SourceType = "learned"
)

// SectionType identifies the structural kind of a parsed section.
type SectionType string

const (
	SectionQAPair    SectionType = "qa_pair"
	SectionPolicy    SectionType = "policy_section"
	SectionStep      SectionType = "step"
	SectionChapter   SectionType = "chapter"
	SectionParagraph SectionType = "paragraph"
)

// DocumentSection is an intermediate parse unit. It is owned by the
// document parsers and folded into a KnowledgeEntry before it reaches
// the knowledge store.
type DocumentSection struct {
	// Title is the section heading, question, or step label.
	Title string

	// Content is the section body, complete enough to stand alone
	// when retrieved.
	Content string

	// Type describes the section's structural kind.
	Type SectionType

	// Level is the nesting depth (0 = top level).
	Level int

	// Order is the ordinal position within the source document.
	Order int
}

// KnowledgeEntry is a single retrievable unit of knowledge.
// Entries are replaced wholesale on update, never partially mutated.
type KnowledgeEntry struct {
	// ID is derived deterministically from source identity so that
	// re-ingesting the same content updates rather than duplicates.
	ID string

	// Title is the human-readable entry title.
	Title string

	// Content is the full entry text.
	Content string

	// Category is the document type this entry belongs to.
	Category DocumentType

	// Tags are free-form labels; order is irrelevant.
	Tags []string

	// SourceType identifies the ingestion path.
	SourceType SourceType

	// SourceFile is the originating file name, used for citations.
	SourceFile string

	// Priority is an optional explicit boost ("high" multiplies the
	// ranking score).
	Priority string

	// CreatedAt is when the entry was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the entry was last replaced.
	UpdatedAt time.Time
}

// EntryID derives a deterministic entry identifier from source
// identity. Identical inputs always produce the same id, which makes
// re-ingestion idempotent.
func EntryID(sourceFile, company, content string) string {
	h := sha256.Sum256([]byte(sourceFile + "\x00" + company + "\x00" + content))
	return hex.EncodeToString(h[:])[:16]
}

// LoadStats summarises a knowledge-base load.
type LoadStats struct {
	JSONEntries   int
	ParsedEntries int
	Total         int
	Overwrites    int
	Categories    []string
}

// Classification is the outcome of classifying one document.
type Classification struct {
	// Type is the assigned document type.
	Type DocumentType

	// Confidence is in [0, 1]. Zero means nothing matched and the
	// type fell back to general.
	Confidence float64

	// Signals names the patterns that matched, for the verbose log.
	Signals []string
}

// KnowledgeStats summarises the live knowledge base.
type KnowledgeStats struct {
	TotalEntries  int
	ByCategory    map[DocumentType]int
	LearnedFacts  int
	KnowledgeGaps int
	IndexedTerms  int
}
