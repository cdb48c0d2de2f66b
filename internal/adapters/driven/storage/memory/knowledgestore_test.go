package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// TestKnowledgeStore_UpsertAndGet tests basic persistence
func TestKnowledgeStore_UpsertAndGet(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	overwrote, err := store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e1", Title: "Hours"})
	require.NoError(t, err)
	assert.False(t, overwrote)

	got, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Hours", got.Title)
}

// TestKnowledgeStore_UpsertOverwrites tests replace reporting
func TestKnowledgeStore_UpsertOverwrites(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e1", Title: "Old"})
	require.NoError(t, err)

	overwrote, err := store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e1", Title: "New"})
	require.NoError(t, err)
	assert.True(t, overwrote)

	got, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
}

// TestKnowledgeStore_GetMissing tests the not-found error
func TestKnowledgeStore_GetMissing(t *testing.T) {
	store := NewKnowledgeStore()

	_, err := store.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestKnowledgeStore_ListByCategory tests category filtering
func TestKnowledgeStore_ListByCategory(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	_, _ = store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e1", Category: domain.DocTypeFAQ})
	_, _ = store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e2", Category: domain.DocTypePolicy})
	_, _ = store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e3", Category: domain.DocTypeFAQ})

	faqs, err := store.ListByCategory(ctx, domain.DocTypeFAQ)
	require.NoError(t, err)
	assert.Len(t, faqs, 2)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

// TestKnowledgeStore_Delete tests removal
func TestKnowledgeStore_Delete(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	_, _ = store.Upsert(ctx, &domain.KnowledgeEntry{ID: "e1"})

	require.NoError(t, store.Delete(ctx, "e1"))
	assert.ErrorIs(t, store.Delete(ctx, "e1"), domain.ErrNotFound)
}
