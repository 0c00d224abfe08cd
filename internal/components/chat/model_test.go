package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbot/internal/session"
)

func assistant(id string, n int) session.Message {
	m := session.Message{
		ID:        id,
		Role:      session.RoleAssistant,
		Content:   "Respuesta",
		CreatedAt: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	}
	for i := 0; i < n; i++ {
		m.Sources = append(m.Sources, session.Source{
			Content:  strings.Repeat("x", 10),
			Document: "doc.pdf",
		})
	}
	return m
}

func TestEmptyStateListsSuggestions(t *testing.T) {
	m := New(80, 20, 0)
	require.True(t, m.IsEmpty())

	view := m.View()
	assert.Contains(t, view, WelcomeText)
	for _, q := range session.SuggestedQuestions {
		assert.Contains(t, view, q)
	}
}

func TestInFlightIsNotEmpty(t *testing.T) {
	m := New(80, 20, 0)
	m.SetMessages([]session.Message{{ID: "u", Role: session.RoleUser, Content: "hola"}}, true)
	assert.False(t, m.IsEmpty())
	assert.Contains(t, m.View(), TypingText)

	m.SetMessages(m.messages, false)
	assert.NotContains(t, m.View(), TypingText)
}

func TestToggleLatestSources(t *testing.T) {
	m := New(100, 40, 0)
	m.SetMessages([]session.Message{
		assistant("a1", 3),
		{ID: "u", Role: session.RoleUser, Content: "otra"},
		assistant("a2", 2),
	}, false)

	require.True(t, m.ToggleLatestSources())
	assert.True(t, m.IsExpanded("a2"))
	assert.False(t, m.IsExpanded("a1"))

	require.True(t, m.ToggleLatestSources())
	assert.False(t, m.IsExpanded("a2"))
}

func TestToggleLatestSourcesNothingToExpand(t *testing.T) {
	m := New(100, 40, 0)
	assert.False(t, m.ToggleLatestSources())

	m.SetMessages([]session.Message{assistant("a1", 3), assistant("a2", 1)}, false)
	assert.False(t, m.ToggleLatestSources())
	assert.False(t, m.IsExpanded("a1"))
}

func TestOfflineNoticeRendered(t *testing.T) {
	m := New(120, 40, 0)
	m.SetMessages([]session.Message{{
		ID:      "error-1",
		Role:    session.RoleAssistant,
		Content: session.OfflineNotice,
		Failed:  true,
	}}, false)
	assert.Contains(t, m.View(), "Lo siento")
}

func TestFailureIsMarkedNotMatchedByText(t *testing.T) {
	answer := assistant("a1", 1)
	answer.Content = session.OfflineNotice

	m := New(120, 40, 0)
	m.SetMessages([]session.Message{answer}, false)
	assert.Contains(t, m.View(), "Fuentes verificadas (1)")

	failed := assistant("error-1", 1)
	failed.Failed = true

	m.SetMessages([]session.Message{failed}, false)
	assert.NotContains(t, m.View(), "Fuentes verificadas")
}
