// Package classify assigns a document type to incoming documents.
// The filename is checked first; content heuristics only run when the
// filename carries no signal.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.DocumentClassifier = (*Classifier)(nil)

// filenameConfidence is assigned when the filename names its own type.
// Filenames are curated by the operator, so they are near-certain.
const filenameConfidence = 0.95

// contentConfidenceCap bounds content-heuristic confidence below the
// filename path. Heuristics can be fooled; filenames cannot outrank them.
const contentConfidenceCap = 0.9

// filenamePatterns map filename fragments to a type. Checked in
// domain.DocumentTypes() order so that ambiguous names resolve the
// same way every run.
var filenamePatterns = map[domain.DocumentType]*regexp.Regexp{
	domain.DocTypeFAQ:       regexp.MustCompile(`(?i)faq|frequently[-_ ]?asked`),
	domain.DocTypePolicy:    regexp.MustCompile(`(?i)polic(y|ies)|terms|conditions`),
	domain.DocTypeProcedure: regexp.MustCompile(`(?i)procedure|process|how[-_ ]?to|steps`),
	domain.DocTypeManual:    regexp.MustCompile(`(?i)manual|guide|handbook|instructions`),
}

// contentPattern is one weighted content heuristic.
type contentPattern struct {
	name   string
	re     *regexp.Regexp
	weight float64
}

var contentPatterns = map[domain.DocumentType][]contentPattern{
	domain.DocTypeFAQ: {
		{"q-a markers", regexp.MustCompile(`(?im)^\s*(q|question)\s*[:.]`), 3},
		{"answer markers", regexp.MustCompile(`(?im)^\s*(a|answer)\s*[:.]`), 3},
		{"faq heading", regexp.MustCompile(`(?i)frequently asked questions`), 2},
		{"question lines", regexp.MustCompile(`(?m)\?\s*$`), 1},
	},
	domain.DocTypePolicy: {
		{"policy wording", regexp.MustCompile(`(?i)\bpolic(y|ies)\b`), 2},
		{"obligation verbs", regexp.MustCompile(`(?i)\b(must|shall|required|prohibited)\b`), 2},
		{"compliance terms", regexp.MustCompile(`(?i)compliance|terms and conditions`), 2},
		{"effective date", regexp.MustCompile(`(?i)effective (date|from)`), 1},
	},
	domain.DocTypeProcedure: {
		{"numbered steps", regexp.MustCompile(`(?m)^\s*\d+[.)]\s`), 3},
		{"step wording", regexp.MustCompile(`(?i)\bstep\s+\d`), 2},
		{"procedure wording", regexp.MustCompile(`(?i)\b(procedure|process)\b`), 2},
		{"sequence words", regexp.MustCompile(`(?i)\b(first|then|next|finally)\b`), 1},
	},
	domain.DocTypeManual: {
		{"chapters", regexp.MustCompile(`(?i)\bchapter\s+\d`), 3},
		{"table of contents", regexp.MustCompile(`(?i)table of contents`), 3},
		{"manual wording", regexp.MustCompile(`(?i)\b(manual|guide|handbook)\b`), 2},
		{"troubleshooting", regexp.MustCompile(`(?i)troubleshooting`), 1},
	},
}

// Classifier assigns document types.
type Classifier struct{}

// New creates a new document classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify determines the document type from filename and content.
// The filename wins outright when it matches; otherwise the content
// heuristics score every type and the best score wins, with ties
// broken by the fixed type priority order.
func (c *Classifier) Classify(filename, content string) domain.Classification {
	base := filepath.Base(filename)
	for _, t := range domain.DocumentTypes() {
		re, ok := filenamePatterns[t]
		if !ok {
			continue
		}
		if re.MatchString(base) {
			return domain.Classification{
				Type:       t,
				Confidence: filenameConfidence,
				Signals:    []string{"filename"},
			}
		}
	}

	return c.classifyContent(content)
}

func (c *Classifier) classifyContent(content string) domain.Classification {
	if strings.TrimSpace(content) == "" {
		return domain.Classification{Type: domain.DocTypeGeneral}
	}

	var bestType domain.DocumentType
	var bestScore float64
	var bestSignals []string
	for _, t := range domain.DocumentTypes() {
		patterns, ok := contentPatterns[t]
		if !ok {
			continue
		}

		// Each occurrence counts: a document with ten Q: markers is
		// more certainly a FAQ than one with a single question line.
		var score float64
		var signals []string
		for _, p := range patterns {
			hits := len(p.re.FindAllStringIndex(content, -1))
			if hits == 0 {
				continue
			}
			score += p.weight * float64(hits)
			signals = append(signals, p.name)
		}

		// Strictly-greater keeps the earlier (higher priority)
		// type on ties.
		if score > bestScore {
			bestType, bestScore, bestSignals = t, score, signals
		}
	}

	if bestScore == 0 {
		return domain.Classification{Type: domain.DocTypeGeneral}
	}
	conf := bestScore / 8.0
	if conf > contentConfidenceCap {
		conf = contentConfidenceCap
	}
	return domain.Classification{Type: bestType, Confidence: conf, Signals: bestSignals}
}
