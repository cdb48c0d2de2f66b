package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
)

// learningStore implements driven.LearningStore.
type learningStore struct {
	store *Store
}

var _ driven.LearningStore = (*learningStore)(nil)

// SaveFact stores a learned fact. The insert is committed before this
// returns; callers may acknowledge the fact once SaveFact succeeds.
func (s *learningStore) SaveFact(ctx context.Context, fact *domain.LearnedFact) error {
	topicsJSON, err := json.Marshal(fact.RelatedTopics)
	if err != nil {
		return fmt.Errorf("marshalling related topics: %w", err)
	}

	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO learned_facts (id, content, topic, type, confidence, session_id, related_topics, usage_count, last_used, conflict, superseded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			topic = excluded.topic,
			type = excluded.type,
			confidence = excluded.confidence,
			related_topics = excluded.related_topics,
			conflict = excluded.conflict,
			superseded = excluded.superseded
	`, fact.ID, fact.Content, string(fact.Topic), string(fact.Type), string(fact.Confidence),
		fact.SessionID, string(topicsJSON), fact.UsageCount, nullTime(fact.LastUsed),
		fact.Conflict, fact.Superseded, fact.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: saving fact: %v", domain.ErrPersistence, err)
	}
	return nil
}

// GetFact retrieves a fact by id.
func (s *learningStore) GetFact(ctx context.Context, id string) (*domain.LearnedFact, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content, topic, type, confidence, session_id, related_topics, usage_count, last_used, conflict, superseded, created_at
		FROM learned_facts WHERE id = ?
	`, id)

	fact, err := scanFact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return fact, nil
}

// ListFacts returns all facts, superseded included, newest first.
func (s *learningStore) ListFacts(ctx context.Context) ([]domain.LearnedFact, error) {
	return s.queryFacts(ctx, `
		SELECT id, content, topic, type, confidence, session_id, related_topics, usage_count, last_used, conflict, superseded, created_at
		FROM learned_facts ORDER BY created_at DESC, id
	`)
}

// ActiveFacts returns facts not marked superseded.
func (s *learningStore) ActiveFacts(ctx context.Context) ([]domain.LearnedFact, error) {
	return s.queryFacts(ctx, `
		SELECT id, content, topic, type, confidence, session_id, related_topics, usage_count, last_used, conflict, superseded, created_at
		FROM learned_facts WHERE superseded = 0 ORDER BY created_at DESC, id
	`)
}

// MarkUsed increments a fact's usage count and stamps LastUsed.
func (s *learningStore) MarkUsed(ctx context.Context, id string, when time.Time) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE learned_facts SET usage_count = usage_count + 1, last_used = ? WHERE id = ?",
		when.UTC(), id)
	if err != nil {
		return fmt.Errorf("marking fact used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Supersede marks a fact as replaced.
func (s *learningStore) Supersede(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE learned_facts SET superseded = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("superseding fact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertGap records an unanswered query, folding repeats together by
// normalized query.
func (s *learningStore) UpsertGap(ctx context.Context, gap *domain.KnowledgeGap) error {
	now := time.Now().UTC()
	first := gap.FirstAsked
	if first.IsZero() {
		first = now
	}
	last := gap.LastAsked
	if last.IsZero() {
		last = now
	}
	freq := gap.Frequency
	if freq == 0 {
		freq = 1
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO knowledge_gaps (normalized_query, id, query, intent, frequency, first_asked, last_asked)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(normalized_query) DO UPDATE SET
			query = excluded.query,
			frequency = knowledge_gaps.frequency + 1,
			last_asked = excluded.last_asked
	`, gap.NormalizedQuery, gap.ID, gap.Query, string(gap.Intent), freq, first, last)
	if err != nil {
		return fmt.Errorf("%w: saving gap: %v", domain.ErrPersistence, err)
	}
	return nil
}

// ListGaps returns all gaps, most frequent first.
func (s *learningStore) ListGaps(ctx context.Context) ([]domain.KnowledgeGap, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT normalized_query, id, query, intent, frequency, first_asked, last_asked
		FROM knowledge_gaps ORDER BY frequency DESC, normalized_query
	`)
	if err != nil {
		return nil, fmt.Errorf("querying gaps: %w", err)
	}
	defer rows.Close()

	var out []domain.KnowledgeGap
	for rows.Next() {
		var gap domain.KnowledgeGap
		var intent string
		var firstAsked, lastAsked sql.NullTime
		if err := rows.Scan(&gap.NormalizedQuery, &gap.ID, &gap.Query, &intent,
			&gap.Frequency, &firstAsked, &lastAsked); err != nil {
			return nil, fmt.Errorf("scanning gap: %w", err)
		}
		gap.Intent = domain.Intent(intent)
		if firstAsked.Valid {
			gap.FirstAsked = firstAsked.Time
		}
		if lastAsked.Valid {
			gap.LastAsked = lastAsked.Time
		}
		out = append(out, gap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating gaps: %w", err)
	}
	return out, nil
}

func (s *learningStore) queryFacts(ctx context.Context, stmt string, args ...any) ([]domain.LearnedFact, error) {
	rows, err := s.store.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}
	defer rows.Close()

	var out []domain.LearnedFact
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating facts: %w", err)
	}
	return out, nil
}

func scanFact(row scanner) (*domain.LearnedFact, error) {
	var fact domain.LearnedFact
	var topic, factType, confidence, topicsJSON string
	var lastUsed, createdAt sql.NullTime

	if err := row.Scan(&fact.ID, &fact.Content, &topic, &factType, &confidence,
		&fact.SessionID, &topicsJSON, &fact.UsageCount, &lastUsed, &fact.Conflict, &fact.Superseded, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning fact: %w", err)
	}

	if err := json.Unmarshal([]byte(topicsJSON), &fact.RelatedTopics); err != nil {
		return nil, fmt.Errorf("unmarshaling related topics: %w", err)
	}

	fact.Topic = domain.Intent(topic)
	fact.Type = domain.LearningType(factType)
	fact.Confidence = domain.Confidence(confidence)
	if lastUsed.Valid {
		fact.LastUsed = lastUsed.Time
	}
	if createdAt.Valid {
		fact.CreatedAt = createdAt.Time
	}
	return &fact, nil
}

// nullTime converts a zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
