package services

import (
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// processedQuery is a query after tokenization, expansion, and intent
// detection.
type processedQuery struct {
	// Raw is the query as received.
	Raw string

	// Terms are the raw query's tokens.
	Terms []string

	// Expanded adds synonyms to Terms, deduplicated. Index lookups
	// use Expanded; ranking weighs Terms higher.
	Expanded []string

	// Intent is the detected query intent.
	Intent domain.Intent
}

// synonyms expand query terms to close their vocabulary gap with the
// documents. One-directional on purpose: "price" pulls in "cost" but
// a document term never expands back.
var synonyms = map[string][]string{
	"book":        {"appointment", "schedule", "reserve"},
	"booking":     {"appointment", "schedule"},
	"appointment": {"booking", "visit"},
	"cancel":      {"cancellation", "reschedule"},
	"cost":        {"price", "fee", "charge"},
	"price":       {"cost", "fee"},
	"fee":         {"cost", "charge"},
	"pay":         {"payment", "cost"},
	"hours":       {"open", "opening", "schedule"},
	"open":        {"hours", "opening"},
	"doctor":      {"physician", "provider"},
	"medicine":    {"medication", "prescription"},
	"phone":       {"telephone", "contact"},
	"email":       {"contact"},
	"address":     {"location"},
	"refund":      {"cancellation", "money"},
	"insurance":   {"coverage", "policy"},
}

// intentBucket pairs an intent with its trigger words.
type intentBucket struct {
	intent domain.Intent
	words  []string
}

// intentBuckets are checked in a fixed order and the first bucket
// with a hit wins. The order is part of the engine's behaviour:
// "cancel my appointment" is a booking query, not a cancellation,
// because booking is checked first.
var intentBuckets = []intentBucket{
	{domain.IntentBooking, []string{"book", "booking", "appointment", "schedule", "reserve", "availability"}},
	{domain.IntentCancellation, []string{"cancel", "cancellation", "reschedule", "refund"}},
	{domain.IntentHours, []string{"hours", "open", "close", "opening", "closing", "weekend", "holiday"}},
	{domain.IntentPolicy, []string{"policy", "policies", "rule", "rules", "terms", "allowed", "permitted"}},
	{domain.IntentCost, []string{"cost", "price", "fee", "charge", "pay", "payment", "expensive", "insurance"}},
	{domain.IntentTechnical, []string{"error", "bug", "crash", "login", "password", "website", "portal", "app"}},
	{domain.IntentHealthcare, []string{"doctor", "nurse", "prescription", "medication", "symptom", "treatment", "clinic", "dental", "vaccination"}},
	{domain.IntentContact, []string{"phone", "email", "contact", "address", "location", "reach", "fax"}},
}

// processQuery tokenizes, expands, and classifies one query.
func processQuery(query string) processedQuery {
	terms := textutil.UniqueTokens(query)
	return processedQuery{
		Raw:      query,
		Terms:    terms,
		Expanded: expandTerms(terms),
		Intent:   detectIntent(query),
	}
}

// expandTerms appends each term's synonyms, deduplicated, original
// terms first.
func expandTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range terms {
		add(t)
	}
	for _, t := range terms {
		for _, syn := range synonyms[t] {
			add(syn)
		}
	}
	return out
}

// detectIntent classifies a query by its trigger words. Buckets are
// checked in order and the first hit wins; a query matching nothing
// is an information request.
func detectIntent(query string) domain.Intent {
	words := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(query)) {
		words[strings.Trim(f, ".,!?;:'\"()")] = struct{}{}
	}

	for _, bucket := range intentBuckets {
		for _, w := range bucket.words {
			if _, ok := words[w]; ok {
				return bucket.intent
			}
		}
	}
	return domain.IntentInformation
}
