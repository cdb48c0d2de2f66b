package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/core/ports/driving"
	"github.com/custodia-labs/caremind/internal/logger"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Ensure LearningService implements the interface.
var _ driving.LearningService = (*LearningService)(nil)

// learningPattern maps a phrasing to the learning type and confidence
// it yields. The captured group is the teachable clause.
type learningPattern struct {
	re         *regexp.Regexp
	kind       domain.LearningType
	confidence domain.Confidence
}

// Checked in order; the first match wins. "actually it's" must come
// before the bare "actually" marker or every correction phrased that
// way would be filed as explicit teaching.
var learningPatterns = []learningPattern{
	{regexp.MustCompile(`(?i)^actually,?\s+it's\s+(.+)`), domain.LearningCorrection, domain.ConfidenceHigh},

	{regexp.MustCompile(`(?i)^actually,?\s+(.+)`), domain.LearningExplicit, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)let me tell you,?\s+(.+)`), domain.LearningExplicit, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)the correct (?:answer|information) is\s+(.+)`), domain.LearningExplicit, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)i should mention that\s+(.+)`), domain.LearningExplicit, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)for your information,?\s+(.+)`), domain.LearningExplicit, domain.ConfidenceHigh},

	{regexp.MustCompile(`(?i)^no,?\s+that's (?:not right|wrong|incorrect)[,.]?\s*(.*)`), domain.LearningCorrection, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)^that's (?:not right|wrong|incorrect)[,.]?\s*(.*)`), domain.LearningCorrection, domain.ConfidenceHigh},
	{regexp.MustCompile(`(?i)^(?:incorrect|wrong)[,.]?\s+(.+)`), domain.LearningCorrection, domain.ConfidenceHigh},

	{regexp.MustCompile(`(?i)^also,?\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},
	{regexp.MustCompile(`(?i)^additionally,?\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},
	{regexp.MustCompile(`(?i)^by the way,?\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},
	{regexp.MustCompile(`(?i)i forgot to mention\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},
	{regexp.MustCompile(`(?i)what i meant was\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},
	{regexp.MustCompile(`(?i)to clarify,?\s+(.+)`), domain.LearningImplicit, domain.ConfidenceMedium},

	// Complaints about a failed action carry usable facts at low
	// trust: "I tried calling on Sunday but no one answered" implies
	// something about Sunday availability.
	{regexp.MustCompile(`(?i)^(i tried\b.+\bbut\b.+)`), domain.LearningImplicit, domain.ConfidenceLow},
	{regexp.MustCompile(`(?i)^(.*\bno one answered\b.*)`), domain.LearningImplicit, domain.ConfidenceLow},
	{regexp.MustCompile(`(?i)^(.*\bcouldn't (?:reach|get through)\b.*)`), domain.LearningImplicit, domain.ConfidenceLow},
}

// informativeIndicators mark statements carrying teachable content even
// without an explicit marker phrase.
var informativeIndicators = []string{
	"the reason is", "because", "due to", "caused by",
	"the process is", "you need to", "it works by",
	"the policy states", "according to", "the rule is",
	"typically", "usually", "normally", "generally",
	"in my experience", "i found that", "what works is",
}

// informativeMinWords is the minimum length for an unmarked statement
// to be considered teachable.
const informativeMinWords = 10

// oppositions are directly contradictory word pairs; a learned fact
// using one side against existing knowledge using the other is a
// conflict.
var oppositions = [][2]string{
	{"open", "closed"},
	{"can", "cannot"},
	{"allowed", "prohibited"},
	{"free", "paid"},
	{"available", "unavailable"},
	{"refundable", "non-refundable"},
}

var numberPattern = regexp.MustCompile(`\d+`)

// LearningService captures facts and corrections from conversations.
type LearningService struct {
	store     driven.LearningStore
	knowledge *KnowledgeService
	config    driven.ConfigStore
}

// NewLearningService creates a new learning service. The knowledge
// service is used to check learned facts against document knowledge;
// nil disables the conflict check.
func NewLearningService(store driven.LearningStore, knowledge *KnowledgeService, config driven.ConfigStore) *LearningService {
	return &LearningService{
		store:     store,
		knowledge: knowledge,
		config:    config,
	}
}

// Learn inspects a user statement for teachable content. When found,
// the extracted fact is durably stored before returning; conflicts with
// existing knowledge are flagged for review, never resolved silently.
// Returns nil when the statement carries nothing to learn.
func (s *LearningService) Learn(ctx context.Context, sessionID, statement string) (*domain.LearnedFact, error) {
	kind, confidence, content := detectLearning(statement)
	if content == "" {
		return nil, nil
	}

	fact := &domain.LearnedFact{
		ID:         uuid.NewString(),
		Content:    content,
		Topic:      detectIntent(content),
		Type:       kind,
		Confidence: confidence,
		SessionID:  sessionID,
		CreatedAt:  time.Now(),
	}

	if conflict := s.checkConflicts(ctx, fact); conflict != nil {
		// Persisted on the fact so the review channel surfaces it;
		// the fact itself is still saved.
		fact.Conflict = fmt.Sprintf("vs %s: %s", conflict.ExistingID, conflict.Reason)
		logger.Warn("%v: fact %s vs %s: %s",
			domain.ErrConflictDetected, conflict.FactID, conflict.ExistingID, conflict.Reason)
	}

	if kind == domain.LearningCorrection {
		if err := s.supersedeConflicting(ctx, fact); err != nil {
			return nil, err
		}
	}

	if err := s.store.SaveFact(ctx, fact); err != nil {
		return nil, fmt.Errorf("storing learned fact: %w", err)
	}
	logger.Debug("Learned %s fact (%s confidence): %s", fact.Type, fact.Confidence, fact.Content)
	return fact, nil
}

// Facts returns all learned facts for operator review.
func (s *LearningService) Facts(ctx context.Context) ([]domain.LearnedFact, error) {
	return s.store.ListFacts(ctx)
}

// Gaps returns recorded knowledge gaps, most frequent first.
func (s *LearningService) Gaps(ctx context.Context) ([]domain.KnowledgeGap, error) {
	return s.store.ListGaps(ctx)
}

// match returns active facts relevant to a processed query, meeting the
// minimum confidence grade, best overlap first. Matched facts get their
// usage recorded.
func (s *LearningService) match(ctx context.Context, q processedQuery, min domain.Confidence) ([]domain.LearnedFact, error) {
	facts, err := s.store.ActiveFacts(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		fact    domain.LearnedFact
		overlap int
	}
	var matches []scored
	for _, fact := range facts {
		if fact.Confidence.Rank() < min.Rank() {
			continue
		}
		overlap := termOverlap(q.Expanded, textutil.UniqueTokens(fact.Content))
		if overlap == 0 {
			continue
		}
		matches = append(matches, scored{fact, overlap})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].overlap != matches[j].overlap {
			return matches[i].overlap > matches[j].overlap
		}
		if matches[i].fact.UsageCount != matches[j].fact.UsageCount {
			return matches[i].fact.UsageCount > matches[j].fact.UsageCount
		}
		return matches[i].fact.ID < matches[j].fact.ID
	})

	now := time.Now()
	result := make([]domain.LearnedFact, 0, len(matches))
	for _, m := range matches {
		if err := s.store.MarkUsed(ctx, m.fact.ID, now); err != nil {
			return nil, err
		}
		result = append(result, m.fact)
	}
	return result, nil
}

// trackGap records an unanswered query, folding repeats together by
// normalized form.
func (s *LearningService) trackGap(ctx context.Context, query string, intent domain.Intent) error {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return nil
	}
	now := time.Now()
	gap := &domain.KnowledgeGap{
		ID:              uuid.NewString(),
		Query:           query,
		NormalizedQuery: normalized,
		Intent:          intent,
		Frequency:       1,
		FirstAsked:      now,
		LastAsked:       now,
	}
	if err := s.store.UpsertGap(ctx, gap); err != nil {
		return fmt.Errorf("tracking knowledge gap: %w", err)
	}
	logger.Debug("Tracked knowledge gap: %s", normalized)
	return nil
}

// checkConflicts compares a new fact against document knowledge and
// existing active facts, returning the first conflict found.
func (s *LearningService) checkConflicts(ctx context.Context, fact *domain.LearnedFact) *domain.Conflict {
	if s.knowledge != nil && s.knowledge.index.Ready() {
		q := processQuery(fact.Content)
		results, err := s.knowledge.retrieve(ctx, q, s.tunables())
		if err == nil && len(results) > 0 {
			top := results[0]
			if reason := conflictReason(fact.Content, top.Entry.Content); reason != "" {
				return &domain.Conflict{
					FactID:     fact.ID,
					ExistingID: top.Entry.ID,
					Reason:     reason,
				}
			}
		}
	}

	facts, err := s.store.ActiveFacts(ctx)
	if err != nil {
		return nil
	}
	for _, existing := range facts {
		if reason := conflictReason(fact.Content, existing.Content); reason != "" {
			return &domain.Conflict{
				FactID:     fact.ID,
				ExistingID: existing.ID,
				Reason:     reason,
			}
		}
	}
	return nil
}

// supersedeConflicting marks active facts contradicted by a correction
// as superseded.
func (s *LearningService) supersedeConflicting(ctx context.Context, fact *domain.LearnedFact) error {
	facts, err := s.store.ActiveFacts(ctx)
	if err != nil {
		return err
	}
	for _, existing := range facts {
		if conflictReason(fact.Content, existing.Content) == "" {
			continue
		}
		if err := s.store.Supersede(ctx, existing.ID); err != nil {
			return err
		}
		logger.Info("Superseded fact %s by correction %s", existing.ID, fact.ID)
	}
	return nil
}

func (s *LearningService) tunables() domain.Tunables {
	if s.config == nil {
		return domain.DefaultTunables()
	}
	return s.config.Tunables()
}

// detectLearning classifies a statement and extracts its teachable
// clause. An empty content means nothing to learn.
func detectLearning(statement string) (domain.LearningType, domain.Confidence, string) {
	trimmed := strings.TrimSpace(statement)
	if trimmed == "" {
		return "", "", ""
	}

	for _, p := range learningPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if content == "" {
			// Bare correction with no replacement clause carries
			// nothing storable.
			continue
		}
		return p.kind, p.confidence, content
	}

	if isInformative(trimmed) {
		return domain.LearningImplicit, domain.ConfidenceLow, trimmed
	}
	return "", "", ""
}

// isInformative reports whether an unmarked statement is substantial,
// declarative, and carries an informative signal.
func isInformative(statement string) bool {
	lower := strings.ToLower(statement)
	if strings.HasSuffix(strings.TrimSpace(lower), "?") {
		return false
	}
	for _, prefix := range []string{"what", "how", "when", "where", "why", "who"} {
		if strings.HasPrefix(lower, prefix+" ") {
			return false
		}
	}
	if len(strings.Fields(statement)) < informativeMinWords {
		return false
	}
	for _, indicator := range informativeIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// conflictReason reports why two statements contradict, or "" when
// they do not. Two signals: directly opposed word pairs, and differing
// numeric claims over shared terms.
func conflictReason(learned, existing string) string {
	learnedLower := strings.ToLower(learned)
	existingLower := strings.ToLower(existing)

	for _, pair := range oppositions {
		a, b := pair[0], pair[1]
		if containsWord(learnedLower, a) && containsWord(existingLower, b) {
			return fmt.Sprintf("says %q where existing knowledge says %q", a, b)
		}
		if containsWord(learnedLower, b) && containsWord(existingLower, a) {
			return fmt.Sprintf("says %q where existing knowledge says %q", b, a)
		}
	}

	shared := termOverlap(textutil.UniqueTokens(learned), textutil.UniqueTokens(existing))
	if shared >= 2 {
		learnedNums := numberPattern.FindAllString(learnedLower, -1)
		existingNums := numberPattern.FindAllString(existingLower, -1)
		if len(learnedNums) > 0 && len(existingNums) > 0 && !sameSet(learnedNums, existingNums) {
			return fmt.Sprintf("differing numbers: %v vs %v", learnedNums, existingNums)
		}
	}
	return ""
}

func containsWord(text, word string) bool {
	for _, tok := range strings.Fields(text) {
		if strings.Trim(tok, ".,!?;:") == word {
			return true
		}
	}
	return false
}

func termOverlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}
