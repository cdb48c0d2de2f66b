package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

func synthResult(id, title, file, content string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Entry: domain.KnowledgeEntry{
			ID:         id,
			Title:      title,
			Content:    content,
			SourceFile: file,
			SourceType: domain.SourceJSON,
		},
		Score: score,
	}
}

// TestSynthesizeLeadInAndExcerpt tests the intent lead-in and the
// sentence-bounded excerpt.
func TestSynthesizeLeadInAndExcerpt(t *testing.T) {
	q := processQuery("when are you open")
	require.Equal(t, domain.IntentHours, q.Intent)

	results := []domain.SearchResult{
		synthResult("e1", "Clinic Hours", "hours.json",
			"We are open weekdays from 8am to 6pm. Saturday hours are 9am to noon. We are closed on Sundays. Holiday hours vary.",
			0.9),
	}

	text, citations := synthesize(q, results, domain.DefaultTunables())

	assert.True(t, strings.HasPrefix(text, "About our hours:"), "got: %s", text)
	assert.Contains(t, text, "open weekdays from 8am to 6pm")
	// Only the first three sentences are quoted.
	assert.NotContains(t, text, "Holiday hours vary")
	// High confidence skips the qualifier.
	assert.NotContains(t, text, "may not fully answer")

	require.Len(t, citations, 1)
	assert.Equal(t, "hours.json", citations[0].SourceFile)
}

// TestSynthesizeLowConfidenceQualifier tests the hedge below the
// high-confidence bar.
func TestSynthesizeLowConfidenceQualifier(t *testing.T) {
	q := processQuery("parking")
	results := []domain.SearchResult{
		synthResult("e1", "Parking", "info.json", "Parking is behind the building.", 0.5),
	}

	text, _ := synthesize(q, results, domain.DefaultTunables())
	assert.Contains(t, text, "may not fully answer")
}

// TestSynthesizeSecondSource tests the pointer to a nearby distinct
// source.
func TestSynthesizeSecondSource(t *testing.T) {
	q := processQuery("cancellation fee")
	results := []domain.SearchResult{
		synthResult("e1", "Cancellation FAQ", "faq.json", "Cancellations are free with 24 hours notice.", 0.9),
		synthResult("e2", "Cancellation Policy", "policy.json", "A fee applies to late cancellations.", 0.6),
	}

	text, citations := synthesize(q, results, domain.DefaultTunables())
	assert.Contains(t, text, "more detail in policy.json")
	assert.Len(t, citations, 2)
}

// TestSynthesizeCitationFloor tests that sub-threshold results are
// never cited.
func TestSynthesizeCitationFloor(t *testing.T) {
	q := processQuery("hours")
	results := []domain.SearchResult{
		synthResult("e1", "Hours", "hours.json", "Open weekdays.", 0.9),
		synthResult("e2", "Unrelated", "misc.json", "Unrelated content.", 0.1),
	}

	_, citations := synthesize(q, results, domain.DefaultTunables())
	require.Len(t, citations, 1)
	assert.Equal(t, "hours.json", citations[0].SourceFile)
}

// TestSourcesOf tests source dedup with order preserved.
func TestSourcesOf(t *testing.T) {
	sources := sourcesOf([]domain.Citation{
		{Title: "A", SourceFile: "a.json"},
		{Title: "B", SourceFile: "a.json"},
		{Title: "C", SourceFile: "c.json"},
		{Title: "No File"},
	})
	assert.Equal(t, []string{"a.json", "c.json", "No File"}, sources)
}
