package procedure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestParse_NumberedSteps tests plain numbered steps
func TestParse_NumberedSteps(t *testing.T) {
	p := New()
	content := `To book an appointment:
1. Open the patient portal.
2. Choose a provider and time slot.
3. Confirm your booking.`

	sections, err := p.Parse(context.Background(), "Booking", content)

	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "Booking - Step 1", sections[0].Title)
	assert.Equal(t, "Open the patient portal.", sections[0].Content)
	assert.Equal(t, domain.SectionStep, sections[0].Type)
	assert.Equal(t, 2, sections[2].Order)
}

// TestParse_StepPrefix tests "Step N:" style
func TestParse_StepPrefix(t *testing.T) {
	p := New()
	content := "Step 1: Register an account.\nStep 2: Verify your email."

	sections, err := p.Parse(context.Background(), "", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Step 1", sections[0].Title)
	assert.Equal(t, "Register an account.", sections[0].Content)
}

// TestParse_ContinuationLines tests multi-line steps
func TestParse_ContinuationLines(t *testing.T) {
	p := New()
	content := "1. Call the clinic.\nHave your insurance card ready.\n2. Give your details."

	sections, err := p.Parse(context.Background(), "", content)

	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Contains(t, sections[0].Content, "Call the clinic.")
	assert.Contains(t, sections[0].Content, "insurance card ready")
}

// TestParse_NoSteps tests unstructured text yields nothing
func TestParse_NoSteps(t *testing.T) {
	p := New()

	sections, err := p.Parse(context.Background(), "", "Just instructions in prose, no numbering whatsoever.")

	require.NoError(t, err)
	assert.Empty(t, sections)
}

// TestType tests the parser's declared type
func TestType(t *testing.T) {
	assert.Equal(t, domain.DocTypeProcedure, New().Type())
}
