package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultTheme tests the default palette is fully populated.
func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Muted))
}

// TestNewStylesNilTheme tests the nil-theme fallback.
func TestNewStylesNilTheme(t *testing.T) {
	s := NewStyles(nil)
	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

// TestStylesRender tests that styles render text unchanged in content.
func TestStylesRender(t *testing.T) {
	s := DefaultStyles()
	assert.Contains(t, s.Title.Render("caremind"), "caremind")
	assert.Contains(t, s.Escalation.Render("flagged"), "flagged")
}
