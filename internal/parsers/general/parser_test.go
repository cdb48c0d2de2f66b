package general

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestParse_Paragraphs tests blank-line splitting
func TestParse_Paragraphs(t *testing.T) {
	p := New()
	content := "First paragraph about hours.\n\nSecond paragraph about parking.\n\n\nThird one."

	sections, err := p.Parse(context.Background(), "Info", content)

	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "First paragraph about hours.", sections[0].Content)
	assert.Equal(t, domain.SectionParagraph, sections[0].Type)
	assert.Equal(t, 2, sections[2].Order)
}

// TestParse_TitlePrefix tests the document title prefixes section titles
func TestParse_TitlePrefix(t *testing.T) {
	p := New()

	sections, err := p.Parse(context.Background(), "Visiting Info", "Parking is free for patients. Use the rear lot.")

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Visiting Info - Parking is free for patients", sections[0].Title)
}

// TestParse_LongLeadTruncated tests long leading sentences get truncated titles
func TestParse_LongLeadTruncated(t *testing.T) {
	p := New()
	long := strings.Repeat("word ", 40)

	sections, err := p.Parse(context.Background(), "", long)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.True(t, strings.HasSuffix(sections[0].Title, "..."))
	assert.LessOrEqual(t, len([]rune(sections[0].Title)), 63)
}

// TestParse_Blank tests blank content yields nothing
func TestParse_Blank(t *testing.T) {
	p := New()

	sections, err := p.Parse(context.Background(), "Info", "  \n \n ")

	require.NoError(t, err)
	assert.Empty(t, sections)
}

// TestType tests the parser's declared type
func TestType(t *testing.T) {
	assert.Equal(t, domain.DocTypeGeneral, New().Type())
}
