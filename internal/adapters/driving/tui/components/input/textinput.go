// Package input provides the message input component for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/styles"
)

// MessageInput wraps a bubbles textinput with chat-specific styling.
type MessageInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewMessageInput creates a new message input component.
func NewMessageInput(s *styles.Styles) *MessageInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &MessageInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init initialises the input.
func (m *MessageInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (m *MessageInput) Update(msg tea.Msg) (*MessageInput, tea.Cmd) {
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// View renders the input.
func (m *MessageInput) View() string {
	label := m.styles.Title.Render("you ")
	field := m.styles.InputField.Render(m.textinput.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (m *MessageInput) Value() string {
	return m.textinput.Value()
}

// SetValue sets the input value.
func (m *MessageInput) SetValue(value string) {
	m.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (m *MessageInput) Focus() tea.Cmd {
	return m.textinput.Focus()
}

// Blur removes focus from the input.
func (m *MessageInput) Blur() {
	m.textinput.Blur()
}

// Focused returns whether the input is focused.
func (m *MessageInput) Focused() bool {
	return m.textinput.Focused()
}

// SetWidth sets the width of the input.
func (m *MessageInput) SetWidth(width int) {
	m.width = width
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.textinput.Width = inputWidth
}

// Width returns the current width.
func (m *MessageInput) Width() int {
	return m.width
}

// Reset clears the input.
func (m *MessageInput) Reset() {
	m.textinput.Reset()
}
