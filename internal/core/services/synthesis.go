package services

import (
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Fixed response strings. Keep these stable: downstream voice channels
// key phrase detection off them.
const (
	handOffMessage = "Let me connect you with one of our team members who can better assist you with this."

	learnedAckMessage = "Thank you, I've noted that and will remember it for future questions."

	unavailableMessage = "I'm sorry, our knowledge base is temporarily unavailable. " +
		"Please try again in a moment."
)

// answerSentences caps how much of the top entry is quoted verbatim.
const answerSentences = 3

// maxCitations caps the citation list per answer.
const maxCitations = 3

// leadIns open the answer according to the detected intent.
var leadIns = map[domain.Intent]string{
	domain.IntentBooking:      "Here's what I can tell you about booking:",
	domain.IntentCancellation: "Regarding cancellations:",
	domain.IntentHours:        "About our hours:",
	domain.IntentPolicy:       "Our policy says:",
	domain.IntentCost:         "Regarding costs:",
	domain.IntentTechnical:    "For that technical issue:",
	domain.IntentHealthcare:   "Here's the relevant health information:",
	domain.IntentContact:      "Here's how to reach us:",
	domain.IntentInformation:  "Here's what I found:",
}

// synthesize composes the answer text and citations from ranked
// results. Caller guarantees results is non-empty and the top score
// cleared the confidence floor.
func synthesize(q processedQuery, results []domain.SearchResult, tun domain.Tunables) (string, []domain.Citation) {
	top := results[0]

	var b strings.Builder
	b.WriteString(leadIns[q.Intent])
	b.WriteString(" ")
	b.WriteString(excerpt(top.Entry.Content))

	// Point at a second distinct source when one scored nearby.
	if len(results) > 1 &&
		results[1].Entry.SourceFile != top.Entry.SourceFile &&
		results[1].Score >= tun.MinConfidence {
		b.WriteString(" You can find more detail in ")
		b.WriteString(sourceLabel(results[1].Entry))
		b.WriteString(".")
	}

	if top.Score < tun.HighConfidence {
		b.WriteString(" This may not fully answer your question - let me know if you need anything else.")
	}

	citations := make([]domain.Citation, 0, maxCitations)
	for _, r := range results {
		if len(citations) == maxCitations {
			break
		}
		if r.Score < tun.MinConfidence {
			break
		}
		citations = append(citations, domain.Citation{
			Title:      r.Entry.Title,
			SourceFile: r.Entry.SourceFile,
			Score:      r.Score,
		})
	}

	return b.String(), citations
}

// excerpt returns the first few sentences of the content, whole
// sentences only.
func excerpt(content string) string {
	sentences := textutil.Sentences(content)
	if len(sentences) > answerSentences {
		sentences = sentences[:answerSentences]
	}
	return strings.Join(sentences, " ")
}

// sourceLabel names an entry's source for the user: the title when
// the file name is unhelpful, the file otherwise.
func sourceLabel(entry domain.KnowledgeEntry) string {
	if entry.SourceFile != "" {
		return entry.SourceFile
	}
	return entry.Title
}

// sourcesOf collects the distinct source files of the cited results,
// best first.
func sourcesOf(citations []domain.Citation) []string {
	seen := make(map[string]struct{}, len(citations))
	var out []string
	for _, c := range citations {
		file := c.SourceFile
		if file == "" {
			file = c.Title
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		out = append(out, file)
	}
	return out
}
