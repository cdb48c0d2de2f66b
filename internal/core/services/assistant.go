package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/core/ports/driving"
	"github.com/custodia-labs/caremind/internal/logger"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// AssistantService orchestrates the full answer pipeline: learning
// detection, escalation triggers, follow-up resolution, retrieval,
// ranking, and synthesis, with per-session context.
type AssistantService struct {
	knowledge    *KnowledgeService
	conversation *ConversationService
	learning     *LearningService
	config       driven.ConfigStore
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	knowledge *KnowledgeService,
	conversation *ConversationService,
	learning *LearningService,
	config driven.ConfigStore,
) *AssistantService {
	return &AssistantService{
		knowledge:    knowledge,
		conversation: conversation,
		learning:     learning,
		config:       config,
	}
}

// Ask processes one user query within a session. Turns within a
// session are serialized; separate sessions proceed concurrently.
func (s *AssistantService) Ask(ctx context.Context, sessionID, query string) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if sessionID == "" || query == "" {
		return nil, fmt.Errorf("%w: session id and query are required", domain.ErrInvalidInput)
	}

	unlock := s.conversation.lockSession(sessionID)
	defer unlock()

	start := time.Now()
	tun := s.tunables()

	conv, err := s.conversation.getOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Learning runs on every turn, before answering: facts
	// volunteered mid-question must not be lost to a failed search.
	fact, err := s.learning.Learn(ctx, sessionID, query)
	if err != nil {
		// A lost fact is a correctness regression; fail the turn.
		return nil, err
	}
	if fact != nil {
		answer := &domain.Answer{
			Text:       learnedAckMessage,
			Confidence: 1,
			Intent:     fact.Topic,
			Elapsed:    time.Since(start),
		}
		return answer, s.record(ctx, conv, query, answer, false)
	}

	if keywordEscalation(query, tun.EscalationKeywords) {
		logger.Debug("Escalation keyword in query, handing off")
		answer := escalated(conv, 0, detectIntent(query), nil)
		answer.Elapsed = time.Since(start)
		return answer, s.record(ctx, conv, query, answer, false)
	}

	followUp := s.conversation.isFollowUp(conv, query)
	q := processQuery(query)
	if followUp {
		// Keep the established topic and fold recent-turn terms in
		// so "what about weekends?" searches the hours knowledge.
		q.Intent = conv.CurrentTopic
		q.Expanded = mergeTerms(q.Expanded, s.conversation.contextTerms(conv))
		logger.Debug("Follow-up on topic %s, augmented terms: %v", q.Intent, q.Expanded)
	}

	results, err := s.knowledge.retrieve(ctx, q, tun)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		answer := &domain.Answer{
			Text:    unavailableMessage,
			Intent:  q.Intent,
			Elapsed: time.Since(start),
		}
		return answer, s.record(ctx, conv, query, answer, followUp)
	}

	results, err = s.mergeLearned(ctx, q, results, tun)
	if err != nil {
		return nil, err
	}
	if len(results) > tun.TopK {
		results = results[:tun.TopK]
	}

	answer := s.compose(ctx, conv, q, results, tun)
	answer.FollowUp = followUp
	answer.Elapsed = time.Since(start)
	return answer, s.record(ctx, conv, query, answer, followUp)
}

// EndSession closes a session and discards its context.
func (s *AssistantService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	return s.conversation.end(ctx, sessionID)
}

// compose turns ranked results into the final answer, deciding between
// answering and the hand-off.
func (s *AssistantService) compose(ctx context.Context, conv *domain.Conversation, q processedQuery, results []domain.SearchResult, tun domain.Tunables) *domain.Answer {
	confidence := 0.0
	if len(results) > 0 {
		confidence = math.Min(1, math.Max(0, results[0].Score))
	}

	if confidence < tun.MinConfidence {
		// A miss, not an error: note the gap, then hand off.
		logger.Debug("%v for %q (confidence %.2f, floor %.2f)",
			domain.ErrNoUsefulMatch, q.Raw, confidence, tun.MinConfidence)
		if err := s.learning.trackGap(ctx, q.Raw, q.Intent); err != nil {
			logger.Warn("Could not record knowledge gap: %v", err)
		}
		return escalated(conv, confidence, q.Intent, results)
	}

	if conv.EscalationCount >= tun.EscalationCap {
		// The session already burned through the cap; stop
		// answering and keep handing off.
		logger.Info("Session %s reached %d escalations, handing off", conv.SessionID, conv.EscalationCount)
		return escalated(conv, confidence, q.Intent, results)
	}

	text, citations := synthesize(q, results, tun)
	return &domain.Answer{
		Text:       text,
		Sources:    sourcesOf(citations),
		Citations:  citations,
		Confidence: confidence,
		Intent:     q.Intent,
		Retrieved:  results,
	}
}

// escalated discards any draft answer: the caller gets the fixed
// hand-off line and the session's escalation count moves up.
func escalated(conv *domain.Conversation, confidence float64, intent domain.Intent, results []domain.SearchResult) *domain.Answer {
	conv.EscalationCount++
	return &domain.Answer{
		Text:       handOffMessage,
		Confidence: confidence,
		Intent:     intent,
		Retrieved:  results,
		Escalate:   true,
	}
}

// mergeLearned folds matching learned facts into the ranked results,
// scored with the same factors as document entries.
func (s *AssistantService) mergeLearned(ctx context.Context, q processedQuery, results []domain.SearchResult, tun domain.Tunables) ([]domain.SearchResult, error) {
	facts, err := s.learning.match(ctx, q, domain.ConfidenceMedium)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return results, nil
	}

	inputs := make([]rankInput, 0, len(facts))
	for _, fact := range facts {
		entry := domain.KnowledgeEntry{
			ID:         fact.ID,
			Title:      "Learned: " + textutil.Snippet(fact.Content, nil, 48),
			Content:    fact.Content,
			Category:   domain.DocTypeGeneral,
			SourceType: domain.SourceLearned,
			SourceFile: "conversation",
			CreatedAt:  fact.CreatedAt,
			UpdatedAt:  fact.CreatedAt,
		}
		matched := overlapTerms(q.Expanded, textutil.UniqueTokens(fact.Content))
		inputs = append(inputs, rankInput{Entry: entry, MatchedTerms: matched})
	}

	merged := append(results, rank(inputs, q, time.Now(), tun.RecencyHalfLifeDays)...)
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Entry.ID < merged[j].Entry.ID
	})
	return merged, nil
}

// record appends the turn to the conversation and persists it.
func (s *AssistantService) record(ctx context.Context, conv *domain.Conversation, query string, answer *domain.Answer, followUp bool) error {
	turn := domain.Turn{
		UserMessage:   query,
		AgentResponse: answer.Text,
		Intent:        answer.Intent,
		Confidence:    answer.Confidence,
		Sources:       answer.Sources,
		Escalated:     answer.Escalate,
	}
	if err := s.conversation.recordTurn(ctx, conv, turn, followUp); err != nil {
		return fmt.Errorf("recording turn: %w", err)
	}
	return nil
}

func (s *AssistantService) tunables() domain.Tunables {
	if s.config == nil {
		return domain.DefaultTunables()
	}
	return s.config.Tunables()
}

// keywordEscalation reports whether the query contains a phrase that
// forces a hand-off regardless of retrieval quality.
func keywordEscalation(query string, keywords []string) bool {
	lower := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// mergeTerms unions two term lists preserving order.
func mergeTerms(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// overlapTerms returns the terms of a present in b, in a's order.
func overlapTerms(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	var out []string
	for _, t := range a {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
