// Package procedure parses step-by-step documents into step sections.
package procedure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

var stepPatterns = []*regexp.Regexp{
	// "1. Open the portal" / "2) Pick a slot"
	regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`),
	// "Step 3: Confirm"
	regexp.MustCompile(`(?i)^step\s+(\d+)[:.]?\s*(.+)$`),
}

// Parser handles procedure documents.
type Parser struct{}

// New creates a new procedure parser.
func New() *Parser {
	return &Parser{}
}

// Type returns the document type this parser handles.
func (p *Parser) Type() domain.DocumentType {
	return domain.DocTypeProcedure
}

// Parse extracts numbered steps. Continuation lines belong to the
// step above them; text before the first step is discarded as
// preamble. Returns nothing when no steps are found.
func (p *Parser) Parse(_ context.Context, title, content string) ([]domain.DocumentSection, error) {
	var sections []domain.DocumentSection
	var stepText []string
	var stepNum string

	flush := func() {
		if stepNum == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(stepText, "\n"))
		sections = append(sections, domain.DocumentSection{
			Title:   stepTitle(title, stepNum),
			Content: text,
			Type:    domain.SectionStep,
			Order:   len(sections),
		})
		stepText = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if num, rest, ok := matchStep(trimmed); ok {
			flush()
			stepNum = num
			stepText = []string{rest}
			continue
		}
		if stepNum != "" && trimmed != "" {
			stepText = append(stepText, trimmed)
		}
	}
	flush()

	return sections, nil
}

func matchStep(line string) (num, rest string, ok bool) {
	for _, re := range stepPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}

func stepTitle(docTitle, num string) string {
	if docTitle != "" {
		return fmt.Sprintf("%s - Step %s", docTitle, num)
	}
	return "Step " + num
}
