package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// Ensure LearningStore implements the interface.
var _ driven.LearningStore = (*LearningStore)(nil)

// LearningStore is an in-memory implementation of driven.LearningStore.
type LearningStore struct {
	mu    sync.RWMutex
	facts map[string]domain.LearnedFact
	gaps  map[string]domain.KnowledgeGap // keyed by normalized query
}

// NewLearningStore creates a new in-memory learning store.
func NewLearningStore() *LearningStore {
	return &LearningStore{
		facts: make(map[string]domain.LearnedFact),
		gaps:  make(map[string]domain.KnowledgeGap),
	}
}

// SaveFact stores a learned fact.
func (s *LearningStore) SaveFact(_ context.Context, fact *domain.LearnedFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[fact.ID] = *fact
	return nil
}

// GetFact retrieves a fact by id.
func (s *LearningStore) GetFact(_ context.Context, id string) (*domain.LearnedFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fact, ok := s.facts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &fact, nil
}

// ListFacts returns all facts, superseded included, newest first.
func (s *LearningStore) ListFacts(_ context.Context) ([]domain.LearnedFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LearnedFact, 0, len(s.facts))
	for _, fact := range s.facts {
		out = append(out, fact)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

// ActiveFacts returns facts not marked superseded.
func (s *LearningStore) ActiveFacts(ctx context.Context) ([]domain.LearnedFact, error) {
	all, err := s.ListFacts(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, fact := range all {
		if !fact.Superseded {
			out = append(out, fact)
		}
	}
	return out, nil
}

// MarkUsed increments a fact's usage count and stamps LastUsed.
func (s *LearningStore) MarkUsed(_ context.Context, id string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fact, ok := s.facts[id]
	if !ok {
		return domain.ErrNotFound
	}
	fact.UsageCount++
	fact.LastUsed = when
	s.facts[id] = fact
	return nil
}

// Supersede marks a fact as replaced.
func (s *LearningStore) Supersede(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fact, ok := s.facts[id]
	if !ok {
		return domain.ErrNotFound
	}
	fact.Superseded = true
	s.facts[id] = fact
	return nil
}

// UpsertGap records an unanswered query, folding repeats together by
// normalized query.
func (s *LearningStore) UpsertGap(_ context.Context, gap *domain.KnowledgeGap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.gaps[gap.NormalizedQuery]
	if !ok {
		g := *gap
		if g.Frequency == 0 {
			g.Frequency = 1
		}
		s.gaps[gap.NormalizedQuery] = g
		return nil
	}
	existing.Frequency++
	existing.LastAsked = gap.LastAsked
	existing.Query = gap.Query
	s.gaps[gap.NormalizedQuery] = existing
	return nil
}

// ListGaps returns all gaps, most frequent first.
func (s *LearningStore) ListGaps(_ context.Context) ([]domain.KnowledgeGap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.KnowledgeGap, 0, len(s.gaps))
	for _, gap := range s.gaps {
		out = append(out, gap)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Frequency == out[b].Frequency {
			return out[a].NormalizedQuery < out[b].NormalizedQuery
		}
		return out[a].Frequency > out[b].Frequency
	})
	return out, nil
}
