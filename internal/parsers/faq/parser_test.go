package faq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestParse_QAMarkers tests explicit Q:/A: pairs
func TestParse_QAMarkers(t *testing.T) {
	p := New()
	content := `Q: What are your opening hours?
A: We are open 9am to 5pm on weekdays.

Q: Do you accept walk-ins?
A: No, appointments are required.`

	sections, err := p.Parse(context.Background(), "FAQ", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "What are your opening hours?", sections[0].Title)
	assert.Contains(t, sections[0].Content, "We are open 9am to 5pm")
	assert.Equal(t, domain.SectionQAPair, sections[0].Type)
	assert.Equal(t, 0, sections[0].Order)
	assert.Equal(t, 1, sections[1].Order)
}

// TestParse_QuestionLines tests bare lines ending in "?"
func TestParse_QuestionLines(t *testing.T) {
	p := New()
	content := `How do I cancel?
Call us at least 24 hours ahead.
Cancellations inside 24 hours incur a fee.

What does a visit cost?
Standard visits are 50 euros.`

	sections, err := p.Parse(context.Background(), "FAQ", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "How do I cancel?", sections[0].Title)
	assert.Contains(t, sections[0].Content, "24 hours ahead")
	assert.Contains(t, sections[0].Content, "incur a fee")
	assert.Equal(t, "What does a visit cost?", sections[1].Title)
}

// TestParse_AnswerMarkersStripped tests A: prefixes are removed from answers
func TestParse_AnswerMarkersStripped(t *testing.T) {
	p := New()
	content := "Q: Is parking free?\nAnswer: Yes, for patients."

	sections, err := p.Parse(context.Background(), "FAQ", content)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Contains(t, sections[0].Content, "Yes, for patients.")
	assert.NotContains(t, sections[0].Content, "Answer:")
}

// TestParse_NoQuestions tests unstructured text yields nothing
func TestParse_NoQuestions(t *testing.T) {
	p := New()

	sections, err := p.Parse(context.Background(), "FAQ", "Just a plain paragraph with no questions at all.")

	require.NoError(t, err)
	assert.Empty(t, sections)
}

// TestParse_LeadingTextIgnored tests preamble before the first question
func TestParse_LeadingTextIgnored(t *testing.T) {
	p := New()
	content := "Welcome to our FAQ page.\n\nQ: First question?\nA: First answer."

	sections, err := p.Parse(context.Background(), "FAQ", content)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.NotContains(t, sections[0].Content, "Welcome")
}

// TestType tests the parser's declared type
func TestType(t *testing.T) {
	assert.Equal(t, domain.DocTypeFAQ, New().Type())
}
