package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/caremind/internal/core/domain"
)

func newTestConversation(t *testing.T) (*ConversationService, *memory.ConversationStore) {
	t.Helper()
	store := memory.NewConversationStore()
	return NewConversationService(store, nil), store
}

// TestGetOrCreateNewSession tests that an unknown session starts fresh.
func TestGetOrCreateNewSession(t *testing.T) {
	svc, _ := newTestConversation(t)

	conv, err := svc.getOrCreate(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", conv.SessionID)
	assert.Empty(t, conv.Turns)
	assert.False(t, conv.CreatedAt.IsZero())
}

// TestRecordTurnUpdatesState tests topic tracking and source
// accumulation across turns.
func TestRecordTurnUpdatesState(t *testing.T) {
	svc, store := newTestConversation(t)
	ctx := context.Background()

	conv, err := svc.getOrCreate(ctx, "s1")
	require.NoError(t, err)

	err = svc.recordTurn(ctx, conv, domain.Turn{
		UserMessage:   "when are you open",
		AgentResponse: "About our hours: ...",
		Intent:        domain.IntentHours,
		Sources:       []string{"hours.json"},
	}, false)
	require.NoError(t, err)

	err = svc.recordTurn(ctx, conv, domain.Turn{
		UserMessage:   "what about weekends?",
		AgentResponse: "About our hours: ...",
		Intent:        domain.IntentHours,
		Sources:       []string{"hours.json"},
	}, true)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, saved.Turns, 2)
	assert.Equal(t, domain.IntentHours, saved.CurrentTopic)
	// The repeated source is not duplicated.
	assert.Equal(t, []string{"hours.json"}, saved.RelevantDocuments)
	assert.NotEmpty(t, saved.Turns[0].ID)
	assert.NotEqual(t, saved.Turns[0].ID, saved.Turns[1].ID)
}

// TestIsFollowUp tests the short-query and anaphora signals.
func TestIsFollowUp(t *testing.T) {
	svc, _ := newTestConversation(t)

	fresh := &domain.Conversation{SessionID: "s1"}
	assert.False(t, svc.isFollowUp(fresh, "what about weekends?"),
		"no topic yet, nothing to follow up on")

	conv := &domain.Conversation{
		SessionID:    "s1",
		CurrentTopic: domain.IntentHours,
		Turns:        []domain.Turn{{UserMessage: "when are you open"}},
	}
	assert.True(t, svc.isFollowUp(conv, "what about weekends?"), "short query")
	assert.True(t, svc.isFollowUp(conv, "is that also true on public holidays?"), "anaphora")
	assert.False(t, svc.isFollowUp(conv, "how much does a dental cleaning cost for new patients?"))
}

// TestSessionExpiry tests lazy TTL eviction.
func TestSessionExpiry(t *testing.T) {
	svc, store := newTestConversation(t)
	ctx := context.Background()

	stale := &domain.Conversation{
		SessionID:  "s1",
		Turns:      []domain.Turn{{UserMessage: "old"}},
		LastActive: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, store.Save(ctx, stale))

	_, err := svc.History(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// getOrCreate replaces the expired session with a fresh one.
	conv, err := svc.getOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, conv.Turns)
}

// TestSummary tests the hand-off note contents.
func TestSummary(t *testing.T) {
	svc, _ := newTestConversation(t)
	ctx := context.Background()

	conv, err := svc.getOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, svc.recordTurn(ctx, conv, domain.Turn{
		UserMessage: "when are you open",
		Intent:      domain.IntentHours,
		Sources:     []string{"hours.json"},
	}, false))

	summary, err := svc.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, summary, "s1")
	assert.Contains(t, summary, "hours")
	assert.Contains(t, summary, "when are you open")
	assert.Contains(t, summary, "hours.json")
}

// TestEndSession tests teardown of session state.
func TestEndSession(t *testing.T) {
	svc, store := newTestConversation(t)
	ctx := context.Background()

	conv, err := svc.getOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, svc.recordTurn(ctx, conv, domain.Turn{UserMessage: "hi there everyone"}, false))

	require.NoError(t, svc.end(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Ending an already-gone session is not an error.
	assert.NoError(t, svc.end(ctx, "s1"))
}

// TestContextTerms tests term extraction from recent turns.
func TestContextTerms(t *testing.T) {
	svc, _ := newTestConversation(t)

	conv := &domain.Conversation{
		SessionID:    "s1",
		CurrentTopic: domain.IntentHours,
		Turns: []domain.Turn{
			{UserMessage: "when are you open on weekdays"},
			{UserMessage: "what about holiday hours"},
		},
	}

	terms := svc.contextTerms(conv)
	assert.Contains(t, terms, "open")
	assert.Contains(t, terms, "weekdays")
	assert.Contains(t, terms, "holiday")
	assert.Contains(t, terms, "hours")
}
