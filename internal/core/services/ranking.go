package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Ranking factor weights. They sum to 1.0 so an entry hitting every
// factor perfectly scores 1.0 before the priority boost.
const (
	weightTermFrequency    = 0.25
	weightTitleMatch       = 0.20
	weightContentRelevance = 0.20
	weightTypeBonus        = 0.10
	weightRecency          = 0.10
	weightCompleteness     = 0.10
	weightAuthority        = 0.05
)

// priorityBoost multiplies the score of entries the operator marked
// high priority.
const priorityBoost = 1.2

// completenessTarget is the content length at which an entry counts
// as fully self-contained.
const completenessTarget = 500

// snippetWidth is the excerpt length attached to each result.
const snippetWidth = 160

// rankInput pairs an index candidate with its hydrated entry.
type rankInput struct {
	Entry        domain.KnowledgeEntry
	MatchedTerms []string
}

// rank scores and orders candidates. Results are sorted by score
// descending; equal scores fall back to entry id so the ordering is
// deterministic across runs.
func rank(inputs []rankInput, q processedQuery, now time.Time, halfLifeDays float64) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(inputs))
	for _, in := range inputs {
		score, factors := scoreEntry(in.Entry, q, in.MatchedTerms, now, halfLifeDays)
		results = append(results, domain.SearchResult{
			Entry:        in.Entry,
			Score:        score,
			MatchedTerms: in.MatchedTerms,
			Snippet:      textutil.Snippet(in.Entry.Content, in.MatchedTerms, snippetWidth),
			Factors:      factors,
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Entry.ID < results[b].Entry.ID
	})
	return results
}

// scoreEntry computes the weighted relevance of one entry.
func scoreEntry(entry domain.KnowledgeEntry, q processedQuery, matched []string, now time.Time, halfLifeDays float64) (float64, map[string]float64) {
	contentTokens := textutil.Tokenize(entry.Content)
	titleTokens := textutil.UniqueTokens(entry.Title)

	factors := map[string]float64{
		"term_frequency":    termFrequency(contentTokens, q.Terms),
		"title_match":       overlap(titleTokens, q.Terms),
		"content_relevance": coverage(contentTokens, q.Terms),
		"type_bonus":        typeBonus(entry.Category, q.Intent),
		"recency":           recency(entry.UpdatedAt, now, halfLifeDays),
		"completeness":      math.Min(1, float64(len(entry.Content))/completenessTarget),
		"authority":         authority(entry.SourceType),
	}

	score := weightTermFrequency*factors["term_frequency"] +
		weightTitleMatch*factors["title_match"] +
		weightContentRelevance*factors["content_relevance"] +
		weightTypeBonus*factors["type_bonus"] +
		weightRecency*factors["recency"] +
		weightCompleteness*factors["completeness"] +
		weightAuthority*factors["authority"]

	if strings.EqualFold(entry.Priority, "high") {
		score *= priorityBoost
		factors["priority_boost"] = priorityBoost
	}
	return score, factors
}

// termFrequency is the share of content tokens that are query terms,
// scaled so that realistic densities use the full [0, 1] range.
func termFrequency(contentTokens, queryTerms []string) float64 {
	if len(contentTokens) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(queryTerms))
	for _, t := range queryTerms {
		wanted[t] = struct{}{}
	}
	hits := 0
	for _, tok := range contentTokens {
		if _, ok := wanted[tok]; ok {
			hits++
		}
	}
	return math.Min(1, 10*float64(hits)/float64(len(contentTokens)))
}

// coverage is the fraction of query terms present in the tokens.
func coverage(tokens, queryTerms []string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		have[t] = struct{}{}
	}
	found := 0
	for _, t := range queryTerms {
		if _, ok := have[t]; ok {
			found++
		}
	}
	return float64(found) / float64(len(queryTerms))
}

// overlap is coverage against a (typically short) token set.
func overlap(tokens, queryTerms []string) float64 {
	return coverage(tokens, queryTerms)
}

// intentAffinity boosts document types that are where answers for an
// intent usually live: cancellation terms sit in policies, technical
// fixes in manuals.
var intentAffinity = map[domain.Intent]map[domain.DocumentType]float64{
	domain.IntentBooking:      {domain.DocTypeProcedure: 0.2, domain.DocTypeFAQ: 0.1},
	domain.IntentCancellation: {domain.DocTypePolicy: 0.2, domain.DocTypeFAQ: 0.1},
	domain.IntentHours:        {domain.DocTypeFAQ: 0.2},
	domain.IntentPolicy:       {domain.DocTypePolicy: 0.3, domain.DocTypeFAQ: 0.1},
	domain.IntentCost:         {domain.DocTypePolicy: 0.2, domain.DocTypeFAQ: 0.1},
	domain.IntentTechnical:    {domain.DocTypeManual: 0.3, domain.DocTypeProcedure: 0.2},
	domain.IntentHealthcare:   {domain.DocTypeFAQ: 0.1, domain.DocTypeGeneral: 0.1},
	domain.IntentContact:      {domain.DocTypeFAQ: 0.2, domain.DocTypeGeneral: 0.1},
	domain.IntentInformation:  {domain.DocTypeFAQ: 0.2, domain.DocTypeGeneral: 0.1},
}

// typeBonus combines the static type priority with the intent
// affinity, capped at 1.
func typeBonus(t domain.DocumentType, intent domain.Intent) float64 {
	return math.Min(1, typePriority(t)+intentAffinity[intent][t])
}

// typePriority reflects how authoritative each document type is for
// answering direct questions. FAQs are written as answers; general
// paragraphs only incidentally contain them.
func typePriority(t domain.DocumentType) float64 {
	switch t {
	case domain.DocTypeFAQ:
		return 1.0
	case domain.DocTypePolicy:
		return 0.9
	case domain.DocTypeProcedure:
		return 0.8
	case domain.DocTypeManual:
		return 0.7
	default:
		return 0.6
	}
}

// recency decays exponentially with the entry's age, halving every
// halfLifeDays. Entries with no update timestamp score neutral 0.5.
func recency(updatedAt, now time.Time, halfLifeDays float64) float64 {
	if updatedAt.IsZero() {
		return 0.5
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Pow(0.5, ageDays/halfLifeDays)
}

// authority grades the ingestion path: curated JSON entries are most
// trusted, parsed documents next, conversation-learned facts least.
func authority(s domain.SourceType) float64 {
	switch s {
	case domain.SourceJSON:
		return 1.0
	case domain.SourceDocument:
		return 0.8
	case domain.SourceLearned:
		return 0.6
	default:
		return 0.5
	}
}
