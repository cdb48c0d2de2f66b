// Package manual parses chapter-structured documents.
package manual

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

var chapterPattern = regexp.MustCompile(`(?i)^(chapter|section|part)\s+(\d+)[:.]?\s*(.*)$`)

// Parser handles manual documents.
type Parser struct{}

// New creates a new manual parser.
func New() *Parser {
	return &Parser{}
}

// Type returns the document type this parser handles.
func (p *Parser) Type() domain.DocumentType {
	return domain.DocTypeManual
}

// Parse splits content at chapter and section headings. Nested
// "Section N" headings under a chapter get Level 1; chapters are
// Level 0. Returns nothing when no headings are found.
func (p *Parser) Parse(_ context.Context, _, content string) ([]domain.DocumentSection, error) {
	var sections []domain.DocumentSection
	var heading string
	var level int
	var body []string
	inChapter := false

	flush := func() {
		if heading == "" {
			return
		}
		sections = append(sections, domain.DocumentSection{
			Title:   heading,
			Content: strings.TrimSpace(strings.Join(body, "\n")),
			Type:    domain.SectionChapter,
			Level:   level,
			Order:   len(sections),
		})
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := chapterPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			heading = trimmed
			kind := strings.ToLower(m[1])
			if kind == "section" && inChapter {
				level = 1
			} else {
				level = 0
			}
			if kind == "chapter" || kind == "part" {
				inChapter = true
			}
			continue
		}
		if heading != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections, nil
}
