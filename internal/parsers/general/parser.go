// Package general provides the paragraph fallback parser. It is the
// parser of last resort: any non-blank text yields at least one section.
package general

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// titleRunes caps how much of a paragraph becomes its title.
const titleRunes = 60

var blankLines = regexp.MustCompile(`\n\s*\n`)

// Parser splits text into paragraph sections.
type Parser struct{}

// New creates a new paragraph parser.
func New() *Parser {
	return &Parser{}
}

// Type returns the document type this parser handles.
func (p *Parser) Type() domain.DocumentType {
	return domain.DocTypeGeneral
}

// Parse splits content on blank lines. Each paragraph becomes one
// section titled by its leading text.
func (p *Parser) Parse(_ context.Context, title, content string) ([]domain.DocumentSection, error) {
	var sections []domain.DocumentSection
	for _, para := range blankLines.Split(content, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sections = append(sections, domain.DocumentSection{
			Title:   sectionTitle(title, para, len(sections)),
			Content: para,
			Type:    domain.SectionParagraph,
			Order:   len(sections),
		})
	}
	return sections, nil
}

// sectionTitle derives a title from the paragraph's leading text,
// prefixed with the document title when one exists.
func sectionTitle(docTitle, para string, _ int) string {
	lead := para
	if i := strings.IndexAny(lead, ".!?\n"); i > 0 {
		lead = lead[:i]
	}
	runes := []rune(strings.TrimSpace(lead))
	if len(runes) > titleRunes {
		lead = string(runes[:titleRunes]) + "..."
	} else {
		lead = string(runes)
	}
	if docTitle != "" {
		return docTitle + " - " + lead
	}
	return lead
}
