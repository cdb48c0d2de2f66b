// Package tui provides an interactive chat terminal interface for
// caremind. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/caremind/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Assistant answers queries with conversational context.
	Assistant driving.AssistantService

	// Knowledge reports knowledge base statistics for the status bar.
	Knowledge driving.KnowledgeService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(assistant driving.AssistantService, knowledge driving.KnowledgeService) *Ports {
	return &Ports{
		Assistant: assistant,
		Knowledge: knowledge,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
