package domain

import "time"

// Intent is the coarse purpose category of a user query.
type Intent string

// Query intents. Detection checks buckets in a fixed order; the
// constants here carry no ordering themselves.
const (
	IntentBooking      Intent = "booking"
	IntentCancellation Intent = "cancellation"
	IntentHours        Intent = "hours"
	IntentPolicy       Intent = "policy"
	IntentCost         Intent = "cost"
	IntentTechnical    Intent = "technical"
	IntentHealthcare   Intent = "healthcare"
	IntentContact      Intent = "contact"
	IntentInformation  Intent = "information"
)

// Candidate is a raw index hit before ranking.
type Candidate struct {
	// EntryID references a KnowledgeEntry in the store.
	EntryID string

	// MatchedTerms are the query terms that hit this entry.
	MatchedTerms []string
}

// SearchResult is a scored hit produced per query. Not persisted.
type SearchResult struct {
	// Entry is the matched knowledge entry.
	Entry KnowledgeEntry

	// Score is the relevance score; higher is better.
	Score float64

	// MatchedTerms are the query terms found in the entry.
	MatchedTerms []string

	// Snippet is a short excerpt centred on the matched terms.
	Snippet string

	// Factors breaks the score down by ranking factor, for the
	// verbose log and for tests.
	Factors map[string]float64
}

// Citation points a synthesized answer back at its source.
type Citation struct {
	// Title is the cited entry's title.
	Title string

	// SourceFile is the originating document.
	SourceFile string

	// Score is the cited result's relevance.
	Score float64
}

// Answer is the assistant's response to one query.
type Answer struct {
	// Text is the synthesized natural-language answer, or the
	// hand-off message when Escalate is set.
	Text string

	// Sources lists the source files backing the answer, best first.
	Sources []string

	// Citations carry per-source detail for display.
	Citations []Citation

	// Confidence is the top ranked result's relevance score,
	// clamped to [0, 1].
	Confidence float64

	// Intent is the detected query intent.
	Intent Intent

	// Escalate indicates the conversation should be handed to a
	// human. When set, Text is the fixed hand-off message.
	Escalate bool

	// FollowUp indicates the query was resolved against the prior
	// turn's topic.
	FollowUp bool

	// Retrieved is the ranked result list the answer was drawn from.
	Retrieved []SearchResult

	// Elapsed is the end-to-end processing time.
	Elapsed time.Duration
}
