package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/caremind/internal/core/domain"
)

func newTestLearning(t *testing.T) (*LearningService, *memory.LearningStore) {
	t.Helper()
	store := memory.NewLearningStore()
	return NewLearningService(store, nil, nil), store
}

// TestDetectLearning tests the marker patterns and confidence grades.
func TestDetectLearning(t *testing.T) {
	tests := []struct {
		name        string
		statement   string
		wantType    domain.LearningType
		wantConf    domain.Confidence
		wantContent string
	}{
		{
			"explicit actually",
			"Actually, we close at 5pm on Fridays",
			domain.LearningExplicit, domain.ConfidenceHigh,
			"we close at 5pm on Fridays",
		},
		{
			"explicit for your information",
			"For your information, the dental clinic moved to the second floor",
			domain.LearningExplicit, domain.ConfidenceHigh,
			"the dental clinic moved to the second floor",
		},
		{
			"correction",
			"No, that's wrong, the cancellation window is 48 hours",
			domain.LearningCorrection, domain.ConfidenceHigh,
			"the cancellation window is 48 hours",
		},
		{
			"correction actually it's",
			"actually it's 48 hours notice for cancellations",
			domain.LearningCorrection, domain.ConfidenceHigh,
			"48 hours notice for cancellations",
		},
		{
			"aside",
			"By the way, parking validation is available at reception",
			domain.LearningImplicit, domain.ConfidenceMedium,
			"parking validation is available at reception",
		},
		{
			"implicit informative",
			"The reason is that the billing system only runs invoices on weekdays",
			domain.LearningImplicit, domain.ConfidenceLow,
			"The reason is that the billing system only runs invoices on weekdays",
		},
		{
			"complaint failed call",
			"I tried calling on Sunday but no one answered",
			domain.LearningImplicit, domain.ConfidenceLow,
			"I tried calling on Sunday but no one answered",
		},
		{
			"complaint unreachable",
			"We couldn't get through to billing all morning",
			domain.LearningImplicit, domain.ConfidenceLow,
			"We couldn't get through to billing all morning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, conf, content := detectLearning(tt.statement)
			assert.Equal(t, tt.wantType, kind)
			assert.Equal(t, tt.wantConf, conf)
			assert.Equal(t, tt.wantContent, content)
		})
	}
}

// TestDetectLearningNothing tests statements that carry nothing to
// learn.
func TestDetectLearningNothing(t *testing.T) {
	for _, statement := range []string{
		"",
		"when are you open?",
		"how does the portal work",
		"thanks",
		"that was helpful",
	} {
		kind, _, content := detectLearning(statement)
		assert.Empty(t, content, "statement %q should not teach", statement)
		assert.Empty(t, string(kind))
	}
}

// TestLearnStoresFact tests the durable round-trip.
func TestLearnStoresFact(t *testing.T) {
	svc, store := newTestLearning(t)
	ctx := context.Background()

	fact, err := svc.Learn(ctx, "s1", "Actually, we close at 5pm on Fridays")
	require.NoError(t, err)
	require.NotNil(t, fact)
	assert.Equal(t, domain.LearningExplicit, fact.Type)
	assert.Equal(t, domain.ConfidenceHigh, fact.Confidence)
	assert.Equal(t, "s1", fact.SessionID)

	saved, err := store.GetFact(ctx, fact.ID)
	require.NoError(t, err)
	assert.Equal(t, fact.Content, saved.Content)
}

// TestLearnNothingToLearn tests that plain queries return nil.
func TestLearnNothingToLearn(t *testing.T) {
	svc, store := newTestLearning(t)

	fact, err := svc.Learn(context.Background(), "s1", "when are you open?")
	require.NoError(t, err)
	assert.Nil(t, fact)

	facts, err := store.ListFacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, facts)
}

// TestCorrectionSupersedes tests that a correction retires the
// conflicting fact instead of leaving both active.
func TestCorrectionSupersedes(t *testing.T) {
	svc, store := newTestLearning(t)
	ctx := context.Background()

	first, err := svc.Learn(ctx, "s1", "Actually, the cancellation window is 24 hours notice")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Learn(ctx, "s2", "No, that's wrong, the cancellation window is 48 hours notice")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, domain.LearningCorrection, second.Type)

	active, err := store.ActiveFacts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	all, err := store.ListFacts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// TestLearnRecordsConflict tests that a contradicting fact is still
// saved, carrying the conflict for the review channel.
func TestLearnRecordsConflict(t *testing.T) {
	svc, store := newTestLearning(t)
	ctx := context.Background()

	first, err := svc.Learn(ctx, "s1", "Actually, the clinic is open on Saturday mornings")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Empty(t, first.Conflict)

	second, err := svc.Learn(ctx, "s2", "By the way, the clinic is closed on Saturday mornings")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Contains(t, second.Conflict, first.ID)
	assert.Contains(t, second.Conflict, `"closed"`)

	// The conflict survives the store round-trip, and both facts
	// stay active: review resolves it, not the engine.
	saved, err := store.GetFact(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Conflict, saved.Conflict)

	active, err := store.ActiveFacts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

// TestConflictReason tests both contradiction signals.
func TestConflictReason(t *testing.T) {
	assert.NotEmpty(t, conflictReason(
		"we are open on Saturday mornings",
		"the clinic is closed on weekends"))
	assert.NotEmpty(t, conflictReason(
		"the cancellation window is 48 hours notice",
		"the cancellation window is 24 hours notice"))
	assert.Empty(t, conflictReason(
		"parking is behind the building",
		"the clinic is closed on weekends"))
}

// TestMatch tests learned-fact retrieval with confidence floor and
// usage tracking.
func TestMatch(t *testing.T) {
	svc, store := newTestLearning(t)
	ctx := context.Background()

	high, err := svc.Learn(ctx, "s1", "Actually, parking validation is offered at the reception desk")
	require.NoError(t, err)
	require.NotNil(t, high)

	low, err := svc.Learn(ctx, "s1", "The reason is that the parking garage closes early on public holidays")
	require.NoError(t, err)
	require.NotNil(t, low)
	require.Equal(t, domain.ConfidenceLow, low.Confidence)

	matches, err := svc.match(ctx, processQuery("parking validation"), domain.ConfidenceMedium)
	require.NoError(t, err)
	require.Len(t, matches, 1, "low-confidence fact filtered out")
	assert.Equal(t, high.ID, matches[0].ID)

	saved, err := store.GetFact(ctx, high.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.UsageCount)
	assert.False(t, saved.LastUsed.IsZero())
}

// TestTrackGapFolds tests frequency accumulation on repeats.
func TestTrackGapFolds(t *testing.T) {
	svc, _ := newTestLearning(t)
	ctx := context.Background()

	require.NoError(t, svc.trackGap(ctx, "do you offer acupuncture?", domain.IntentHealthcare))
	require.NoError(t, svc.trackGap(ctx, "Do you offer acupuncture", domain.IntentHealthcare))
	require.NoError(t, svc.trackGap(ctx, "DO YOU OFFER ACUPUNCTURE?!", domain.IntentHealthcare))

	gaps, err := svc.Gaps(ctx)
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, 3, gaps[0].Frequency)
	assert.Equal(t, domain.IntentHealthcare, gaps[0].Intent)
}
