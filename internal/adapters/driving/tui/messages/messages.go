// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/caremind/internal/core/domain"
)

// AnswerReceived carries the assistant's answer back to the model.
type AnswerReceived struct {
	Query  string
	Answer *domain.Answer
	Err    error
}

// SessionEnded confirms the previous session was discarded.
type SessionEnded struct {
	Err error
}

// StatsLoaded carries knowledge base statistics for the status bar.
type StatsLoaded struct {
	Stats *domain.KnowledgeStats
	Err   error
}
