package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	f := NewField(nil, "URL", "https://youtu.be/...")

	require.NotNil(t, f)
	assert.Equal(t, "URL", f.Label())
	assert.Equal(t, "", f.Value())
	assert.False(t, f.Focused())
	assert.NotNil(t, f.Init())
}

func TestField_TypingWhenFocused(t *testing.T) {
	f := NewField(nil, "Question", "")
	f.Focus()

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("why?")})

	assert.Equal(t, "why?", f.Value())
}

func TestField_IgnoresKeysWhenBlurred(t *testing.T) {
	f := NewField(nil, "Question", "")

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Equal(t, "", f.Value())
}

func TestField_SetValueAndReset(t *testing.T) {
	f := NewField(nil, "URL", "")
	f.SetValue("dQw4w9WgXcQ")
	assert.Equal(t, "dQw4w9WgXcQ", f.Value())

	f.Reset()
	assert.Equal(t, "", f.Value())
}

func TestField_SetWidth(t *testing.T) {
	f := NewField(nil, "URL", "")

	f.SetWidth(100)
	assert.Equal(t, 100, f.Width())

	f.SetWidth(10)
	assert.Equal(t, 10, f.Width())
}

func TestField_View(t *testing.T) {
	f := NewField(nil, "URL", "")
	f.SetValue("dQw4w9WgXcQ")

	view := f.View()

	assert.Contains(t, view, "URL")
	assert.Contains(t, view, "dQw4w9WgXcQ")
}
