// Package policy parses policy documents into headed sections.
package policy

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

var headingPatterns = []*regexp.Regexp{
	// "1. Cancellations" / "2.3) Refunds"
	regexp.MustCompile(`^\d+(\.\d+)*[.)]\s+\S`),
	// "Section 4: Liability"
	regexp.MustCompile(`(?i)^section\s+\d+`),
	// "CANCELLATION POLICY" - all-caps heading lines
	regexp.MustCompile(`^[A-Z][A-Z0-9 &-]{3,}$`),
}

// Parser handles policy documents.
type Parser struct{}

// New creates a new policy parser.
func New() *Parser {
	return &Parser{}
}

// Type returns the document type this parser handles.
func (p *Parser) Type() domain.DocumentType {
	return domain.DocTypePolicy
}

// Parse splits content at heading lines. Each heading opens a section
// holding everything up to the next heading. Text before the first
// heading is dropped only if blank; otherwise it becomes a preamble
// section. Returns nothing when no headings are found.
func (p *Parser) Parse(_ context.Context, title, content string) ([]domain.DocumentSection, error) {
	lines := strings.Split(content, "\n")

	var sections []domain.DocumentSection
	var heading string
	var body []string
	sawHeading := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if heading == "" && text == "" {
			return
		}
		h := heading
		if h == "" {
			h = title
		}
		sections = append(sections, domain.DocumentSection{
			Title:   h,
			Content: text,
			Type:    domain.SectionPolicy,
			Order:   len(sections),
		})
		body = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeading(trimmed) {
			flush()
			heading = trimmed
			sawHeading = true
			continue
		}
		body = append(body, line)
	}
	flush()

	if !sawHeading {
		return nil, nil
	}
	return sections, nil
}

func isHeading(line string) bool {
	if line == "" {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
