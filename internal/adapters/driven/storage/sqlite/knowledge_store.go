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

// knowledgeStore implements driven.KnowledgeStore.
type knowledgeStore struct {
	store *Store
}

var _ driven.KnowledgeStore = (*knowledgeStore)(nil)

// Upsert stores or replaces an entry by id.
func (s *knowledgeStore) Upsert(ctx context.Context, entry *domain.KnowledgeEntry) (bool, error) {
	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return false, fmt.Errorf("marshalling tags: %w", err)
	}

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	var existed bool
	row := s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM knowledge_entries WHERE id = ?)", entry.ID)
	if err := row.Scan(&existed); err != nil {
		return false, fmt.Errorf("checking entry: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO knowledge_entries (id, title, content, category, tags, source_type, source_file, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			category = excluded.category,
			tags = excluded.tags,
			source_type = excluded.source_type,
			source_file = excluded.source_file,
			priority = excluded.priority,
			updated_at = excluded.updated_at
	`, entry.ID, entry.Title, entry.Content, string(entry.Category), string(tagsJSON),
		string(entry.SourceType), entry.SourceFile, entry.Priority,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("saving entry: %w", err)
	}
	return existed, nil
}

// Get retrieves an entry by id.
func (s *knowledgeStore) Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, content, category, tags, source_type, source_file, priority, created_at, updated_at
		FROM knowledge_entries WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// List returns all entries.
func (s *knowledgeStore) List(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	return s.query(ctx, `
		SELECT id, title, content, category, tags, source_type, source_file, priority, created_at, updated_at
		FROM knowledge_entries ORDER BY id
	`)
}

// ListByCategory returns entries of one document type.
func (s *knowledgeStore) ListByCategory(ctx context.Context, category domain.DocumentType) ([]domain.KnowledgeEntry, error) {
	return s.query(ctx, `
		SELECT id, title, content, category, tags, source_type, source_file, priority, created_at, updated_at
		FROM knowledge_entries WHERE category = ? ORDER BY id
	`, string(category))
}

// Delete removes an entry by id.
func (s *knowledgeStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM knowledge_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
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

// Count returns the total number of entries.
func (s *knowledgeStore) Count(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM knowledge_entries")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

func (s *knowledgeStore) query(ctx context.Context, stmt string, args ...any) ([]domain.KnowledgeEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []domain.KnowledgeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return out, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.KnowledgeEntry, error) {
	var entry domain.KnowledgeEntry
	var category, sourceType, tagsJSON string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&entry.ID, &entry.Title, &entry.Content, &category, &tagsJSON,
		&sourceType, &entry.SourceFile, &entry.Priority, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}

	entry.Category = domain.DocumentType(category)
	entry.SourceType = domain.SourceType(sourceType)
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		entry.UpdatedAt = updatedAt.Time
	}
	return &entry, nil
}
