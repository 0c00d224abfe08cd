// Package mascot draws the assistant's face for the current mood.
package mascot

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/session"
	"lexbot/internal/styles"
)

var faces = map[session.Mood]string{
	session.MoodIdle:     "(•‿•)",
	session.MoodThinking: "(•_•)",
	session.MoodHappy:    "(^‿^)",
	session.MoodSpeaking: "(•o•)",
}

var captions = map[session.Mood]string{
	session.MoodIdle:     "Listo para ayudarte",
	session.MoodThinking: "Analizando documentos legales...",
	session.MoodHappy:    "¡Aquí tienes!",
	session.MoodSpeaking: "Respondiendo...",
}

// Face returns the face for mood, falling back to idle.
func Face(mood session.Mood) string {
	if f, ok := faces[mood]; ok {
		return f
	}
	return faces[session.MoodIdle]
}

// Caption returns the line shown next to the face.
func Caption(mood session.Mood) string {
	if c, ok := captions[mood]; ok {
		return c
	}
	return captions[session.MoodIdle]
}

// Model renders a mood. It holds no state beyond the mood it was given.
type Model struct {
	mood    session.Mood
	spinner spinner.Model
}

// New creates an idle mascot.
func New() Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(styles.Accent)
	return Model{mood: session.MoodIdle, spinner: s}
}

// Mood returns the mood being shown.
func (m Model) Mood() session.Mood { return m.mood }

// SetMood switches the mood. Entering thinking starts the spinner.
func (m *Model) SetMood(mood session.Mood) tea.Cmd {
	prev := m.mood
	m.mood = mood
	if mood == session.MoodThinking && prev != session.MoodThinking {
		return m.spinner.Tick
	}
	return nil
}

// Update advances the spinner while thinking.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || m.mood != session.MoodThinking {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the face and caption.
func (m Model) View() string {
	face := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true).Render(Face(m.mood))
	caption := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render(Caption(m.mood))
	if m.mood == session.MoodThinking {
		return m.spinner.View() + " " + face + " " + caption
	}
	return face + " " + caption
}
