package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestDetectIntent tests the ordered intent buckets.
func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.Intent
	}{
		{"booking", "I want to book a visit", domain.IntentBooking},
		{"booking wins over cancellation", "cancel my appointment", domain.IntentBooking},
		{"cancellation", "how do I get a refund", domain.IntentCancellation},
		{"hours", "are you open on the weekend?", domain.IntentHours},
		{"policy", "what is your late policy", domain.IntentPolicy},
		{"cost", "how much is the fee", domain.IntentCost},
		{"technical", "the portal shows an error", domain.IntentTechnical},
		{"healthcare", "I need a prescription renewed", domain.IntentHealthcare},
		{"contact", "what's your phone number", domain.IntentContact},
		{"fallback", "tell me about your history", domain.IntentInformation},
		{"punctuation stripped", "Appointment?", domain.IntentBooking},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectIntent(tt.query))
		})
	}
}

// TestExpandTerms tests synonym expansion ordering and dedup.
func TestExpandTerms(t *testing.T) {
	got := expandTerms([]string{"book", "appointment"})

	// Originals first, then synonyms, no duplicates.
	assert.Equal(t, "book", got[0])
	assert.Equal(t, "appointment", got[1])
	assert.Contains(t, got, "schedule")
	assert.Contains(t, got, "visit")

	seen := make(map[string]int)
	for _, term := range got {
		seen[term]++
	}
	for term, n := range seen {
		assert.Equal(t, 1, n, "term %q duplicated", term)
	}
}

// TestProcessQuery tests the combined pipeline.
func TestProcessQuery(t *testing.T) {
	q := processQuery("What does it cost to cancel?")

	assert.Equal(t, "What does it cost to cancel?", q.Raw)
	assert.Contains(t, q.Terms, "cost")
	assert.Contains(t, q.Terms, "cancel")
	assert.Contains(t, q.Expanded, "price")
	assert.Contains(t, q.Expanded, "cancellation")
	assert.Equal(t, domain.IntentCancellation, q.Intent)
}

// TestProcessQueryDropsStopwords tests that stopwords never reach the
// term list.
func TestProcessQueryDropsStopwords(t *testing.T) {
	q := processQuery("what are the hours")
	assert.Equal(t, []string{"hours"}, q.Terms)
}
