package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestParse_NumberedHeadings tests numbered policy sections
func TestParse_NumberedHeadings(t *testing.T) {
	p := New()
	content := `1. Cancellations
Appointments must be cancelled 24 hours in advance.

2. Refunds
Refunds are processed within 5 business days.`

	sections, err := p.Parse(context.Background(), "Refund Policy", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "1. Cancellations", sections[0].Title)
	assert.Contains(t, sections[0].Content, "24 hours in advance")
	assert.Equal(t, domain.SectionPolicy, sections[0].Type)
	assert.Equal(t, "2. Refunds", sections[1].Title)
}

// TestParse_AllCapsHeadings tests all-caps heading lines
func TestParse_AllCapsHeadings(t *testing.T) {
	p := New()
	content := `PRIVACY POLICY
We never share patient data.

DATA RETENTION
Records are kept for seven years.`

	sections, err := p.Parse(context.Background(), "Policy", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "PRIVACY POLICY", sections[0].Title)
	assert.Equal(t, "DATA RETENTION", sections[1].Title)
}

// TestParse_SectionHeadings tests "Section N" headings
func TestParse_SectionHeadings(t *testing.T) {
	p := New()
	content := "Section 1: Scope\nThis policy covers all clinics.\nSection 2: Liability\nLiability is limited."

	sections, err := p.Parse(context.Background(), "Policy", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Section 1: Scope", sections[0].Title)
}

// TestParse_PreambleKept tests text before the first heading
func TestParse_PreambleKept(t *testing.T) {
	p := New()
	content := "This document sets out our policies.\n\n1. Scope\nApplies to everyone."

	sections, err := p.Parse(context.Background(), "Policy", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Policy", sections[0].Title)
	assert.Contains(t, sections[0].Content, "sets out our policies")
}

// TestParse_NoHeadings tests unstructured text yields nothing
func TestParse_NoHeadings(t *testing.T) {
	p := New()

	sections, err := p.Parse(context.Background(), "Policy", "plain prose without any headings here.")

	require.NoError(t, err)
	assert.Empty(t, sections)
}

// TestType tests the parser's declared type
func TestType(t *testing.T) {
	assert.Equal(t, domain.DocTypePolicy, New().Type())
}
