package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/caremind/internal/core/domain"
)

// stubAssistant returns a canned answer for every query.
type stubAssistant struct {
	answer *domain.Answer
	err    error
	ended  []string
}

func (s *stubAssistant) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	return s.answer, s.err
}

func (s *stubAssistant) EndSession(_ context.Context, sessionID string) error {
	s.ended = append(s.ended, sessionID)
	return nil
}

func newTestApp(t *testing.T) (*App, *stubAssistant) {
	t.Helper()
	stub := &stubAssistant{
		answer: &domain.Answer{
			Text:       "About our hours: open weekdays.",
			Sources:    []string{"hours.json"},
			Confidence: 0.8,
			Intent:     domain.IntentHours,
		},
	}
	app, err := NewApp(&Ports{Assistant: stub})
	require.NoError(t, err)
	return app, stub
}

// sized delivers the initial window size so the app lays out.
func sized(app *App) *App {
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

// TestNewAppRequiresAssistant tests port validation.
func TestNewAppRequiresAssistant(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAssistantService)
}

// TestAppInitialView tests the pre-layout placeholder.
func TestAppInitialView(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, "Loading...", app.View())
}

// TestAppRendersAfterResize tests the main layout.
func TestAppRendersAfterResize(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	view := app.View()
	assert.Contains(t, view, "caremind")
	assert.Contains(t, view, "session")
}

// TestSubmitAndAnswer tests a full exchange through Update.
func TestSubmitAndAnswer(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	app.input.SetValue("when are you open")
	cmd := app.submit()
	require.NotNil(t, cmd)
	assert.True(t, app.waiting)
	assert.Contains(t, app.viewport.View(), "when are you open")

	model, _ := app.Update(messages.AnswerReceived{
		Query:  "when are you open",
		Answer: &domain.Answer{Text: "Open weekdays.", Sources: []string{"hours.json"}},
	})
	app = model.(*App)

	assert.False(t, app.waiting)
	view := app.viewport.View()
	assert.Contains(t, view, "Open weekdays.")
	assert.Contains(t, view, "hours.json")
}

// TestSubmitEmptyDoesNothing tests that blank input is ignored.
func TestSubmitEmptyDoesNothing(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	app.input.SetValue("   ")
	assert.Nil(t, app.submit())
	assert.Empty(t, app.transcript)
}

// TestEscalatedAnswerFlagged tests the hand-off notice in the
// transcript.
func TestEscalatedAnswerFlagged(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	app.transcript = append(app.transcript, chatLine{query: "agent please", pending: true})
	model, _ := app.Update(messages.AnswerReceived{
		Query:  "agent please",
		Answer: &domain.Answer{Text: "Let me connect you.", Escalate: true},
	})
	app = model.(*App)

	assert.Contains(t, app.viewport.View(), "flagged for a human agent")
}

// TestNewSessionResets tests ctrl+l behaviour.
func TestNewSessionResets(t *testing.T) {
	app, stub := newTestApp(t)
	app = sized(app)
	oldSession := app.Session()
	app.transcript = append(app.transcript, chatLine{query: "hi"})

	cmd := app.newSession()
	require.NotNil(t, cmd)
	// The end-session command reports against the old session.
	msg := cmd()
	_, ok := msg.(messages.SessionEnded)
	assert.True(t, ok)
	assert.Equal(t, []string{oldSession}, stub.ended)

	assert.NotEqual(t, oldSession, app.Session())
	assert.Empty(t, app.transcript)
}

// TestStatsInStatusBar tests the status bar once stats arrive.
func TestStatsInStatusBar(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	model, _ := app.Update(messages.StatsLoaded{
		Stats: &domain.KnowledgeStats{TotalEntries: 42, LearnedFacts: 3},
	})
	app = model.(*App)

	bar := app.statusBar()
	assert.Contains(t, bar, "42 entries")
	assert.Contains(t, bar, "3 learned")
}

// TestErrorRendered tests that a failed ask shows in the transcript.
func TestErrorRendered(t *testing.T) {
	app, _ := newTestApp(t)
	app = sized(app)

	app.transcript = append(app.transcript, chatLine{query: "q", pending: true})
	model, _ := app.Update(messages.AnswerReceived{
		Query: "q",
		Err:   assert.AnError,
	})
	app = model.(*App)

	assert.True(t, strings.Contains(app.viewport.View(), "error:"))
}
