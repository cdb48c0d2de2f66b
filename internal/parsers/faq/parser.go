// Package faq parses Q/A-structured documents into question sections.
package faq

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

var (
	questionMarker = regexp.MustCompile(`(?i)^\s*(?:q(?:uestion)?\s*\d*\s*[:.])\s*`)
	answerMarker   = regexp.MustCompile(`(?i)^\s*(?:a(?:nswer)?\s*\d*\s*[:.])\s*`)
)

// Parser handles FAQ documents.
type Parser struct{}

// New creates a new FAQ parser.
func New() *Parser {
	return &Parser{}
}

// Type returns the document type this parser handles.
func (p *Parser) Type() domain.DocumentType {
	return domain.DocTypeFAQ
}

// Parse extracts question/answer pairs. A question is a line carrying
// a Q: marker or ending with a question mark; everything up to the
// next question is its answer. Returns nothing when no questions are
// found, letting the registry degrade to paragraphs.
func (p *Parser) Parse(_ context.Context, _, content string) ([]domain.DocumentSection, error) {
	var sections []domain.DocumentSection
	var question string
	var answer []string

	flush := func() {
		if question == "" {
			return
		}
		body := strings.TrimSpace(strings.Join(answer, "\n"))
		sections = append(sections, domain.DocumentSection{
			Title:   question,
			Content: question + "\n" + body,
			Type:    domain.SectionQAPair,
			Order:   len(sections),
		})
		question = ""
		answer = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isQuestion(trimmed) {
			flush()
			question = questionMarker.ReplaceAllString(trimmed, "")
			continue
		}

		if question != "" {
			answer = append(answer, answerMarker.ReplaceAllString(trimmed, ""))
		}
	}
	flush()

	return sections, nil
}

func isQuestion(line string) bool {
	if questionMarker.MatchString(line) {
		return true
	}
	// A short line ending in "?" reads as a question heading; long
	// question-marked lines inside answers do not.
	return strings.HasSuffix(line, "?") && len(line) < 200 && !answerMarker.MatchString(line)
}
