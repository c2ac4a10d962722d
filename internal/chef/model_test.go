package chef

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/pennywise/internal/llm"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func TestModel_SendAndReply(t *testing.T) {
	client := llm.NewMockClient("Use a hot pan.")
	m := NewModel(context.Background(), New(client, nil))
	assert.Contains(t, m.View(), "How may I help you?")

	m = typeText(m, "How do I sear fish?")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "How do I sear fish?")
	assert.Contains(t, m.View(), "thinking")

	reply := m.ask("How do I sear fish?")()
	next, _ = m.Update(reply)
	m = next.(Model)

	assert.False(t, m.waiting)
	assert.NoError(t, m.lastErr)
	assert.Contains(t, m.View(), "Use a hot pan.")
}

func TestModel_IgnoresBlankAndBusySend(t *testing.T) {
	client := llm.NewMockClient("ok")
	m := NewModel(context.Background(), New(client, nil))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	m = next.(Model)
	assert.False(t, m.waiting)

	m.waiting = true
	m = typeText(m, "second question")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestModel_ShowsError(t *testing.T) {
	m := NewModel(context.Background(), New(llm.NewMockClient(), nil))
	m.waiting = true

	next, _ := m.Update(replyMsg{err: errors.New("service down")})
	m = next.(Model)

	assert.False(t, m.waiting)
	assert.Contains(t, m.View(), "service down")
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(context.Background(), New(llm.NewMockClient(), nil))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Resize(t *testing.T) {
	m := NewModel(context.Background(), New(llm.NewMockClient(), nil))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}
