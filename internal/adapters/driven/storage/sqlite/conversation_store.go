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

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// Get retrieves a conversation by session id, turns included.
func (s *conversationStore) Get(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT session_id, current_topic, relevant_documents, escalation_count, created_at, last_active
		FROM conversations WHERE session_id = ?
	`, sessionID)

	var conv domain.Conversation
	var topic, docsJSON string
	var createdAt, lastActive sql.NullTime
	if err := row.Scan(&conv.SessionID, &topic, &docsJSON, &conv.EscalationCount,
		&createdAt, &lastActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	if err := json.Unmarshal([]byte(docsJSON), &conv.RelevantDocuments); err != nil {
		return nil, fmt.Errorf("unmarshaling documents: %w", err)
	}
	conv.CurrentTopic = domain.Intent(topic)
	if createdAt.Valid {
		conv.CreatedAt = createdAt.Time
	}
	if lastActive.Valid {
		conv.LastActive = lastActive.Time
	}

	turns, err := s.turns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	conv.Turns = turns
	return &conv, nil
}

// Save stores or replaces a conversation and its turns.
func (s *conversationStore) Save(ctx context.Context, conv *domain.Conversation) error {
	docsJSON, err := json.Marshal(conv.RelevantDocuments)
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (session_id, current_topic, relevant_documents, escalation_count, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			current_topic = excluded.current_topic,
			relevant_documents = excluded.relevant_documents,
			escalation_count = excluded.escalation_count,
			last_active = excluded.last_active
	`, conv.SessionID, string(conv.CurrentTopic), string(docsJSON),
		conv.EscalationCount, conv.CreatedAt, conv.LastActive)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	// Replace turns wholesale; conversations stay short enough that
	// diffing is not worth the bookkeeping.
	if _, err := tx.ExecContext(ctx, "DELETE FROM turns WHERE session_id = ?", conv.SessionID); err != nil {
		return fmt.Errorf("clearing turns: %w", err)
	}
	for i, turn := range conv.Turns {
		sourcesJSON, err := json.Marshal(turn.Sources)
		if err != nil {
			return fmt.Errorf("marshalling sources: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO turns (id, session_id, position, user_message, agent_response, intent, confidence, sources, escalated, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, turn.ID, conv.SessionID, i, turn.UserMessage, turn.AgentResponse,
			string(turn.Intent), turn.Confidence, string(sourcesJSON), turn.Escalated, turn.Timestamp)
		if err != nil {
			return fmt.Errorf("saving turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing conversation: %w", err)
	}
	return nil
}

// Delete removes a conversation and its turns.
func (s *conversationStore) Delete(ctx context.Context, sessionID string) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM conversations WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all live conversations, turns included.
func (s *conversationStore) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT session_id FROM conversations ORDER BY last_active DESC")
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	out := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	return out, nil
}

// EvictIdle removes conversations idle since before the cutoff.
func (s *conversationStore) EvictIdle(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM conversations WHERE last_active < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("evicting conversations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking eviction: %w", err)
	}
	return int(affected), nil
}

func (s *conversationStore) turns(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, user_message, agent_response, intent, confidence, sources, escalated, created_at
		FROM turns WHERE session_id = ? ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var out []domain.Turn
	for rows.Next() {
		var turn domain.Turn
		var intent, sourcesJSON string
		var ts sql.NullTime
		if err := rows.Scan(&turn.ID, &turn.UserMessage, &turn.AgentResponse,
			&intent, &turn.Confidence, &sourcesJSON, &turn.Escalated, &ts); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &turn.Sources); err != nil {
			return nil, fmt.Errorf("unmarshaling sources: %w", err)
		}
		turn.Intent = domain.Intent(intent)
		if ts.Valid {
			turn.Timestamp = ts.Time
		}
		out = append(out, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return out, nil
}
