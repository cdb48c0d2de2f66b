package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultKeyMap tests the default bindings.
func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	assert.True(t, key.Matches(keyMsg("enter"), km.Send))
	assert.True(t, key.Matches(keyMsg("ctrl+c"), km.Quit))
	assert.True(t, key.Matches(keyMsg("esc"), km.Quit))
	assert.True(t, key.Matches(keyMsg("ctrl+l"), km.Clear))
	assert.False(t, key.Matches(keyMsg("enter"), km.Quit))
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}
