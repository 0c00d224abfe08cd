// Package chat is the scrollable conversation view.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"lexbot/internal/citation"
	"lexbot/internal/session"
	"lexbot/internal/styles"
)

// WelcomeText is shown above the suggested questions while the log is empty.
const WelcomeText = "¡Hola! Soy tu asistente legal. Pregúntame sobre la legislación colombiana."

// TypingText is shown while a query is in flight.
const TypingText = "⋯ Consultando documentos legales"

// Model is the chat viewport.
type Model struct {
	viewport     viewport.Model
	messages     []session.Message
	expansions   *citation.Expansions
	excerptLimit int
	inFlight     bool
	md           *markdown
	width        int
	height       int
}

// New creates a chat view. excerptLimit of 0 uses the citation default.
func New(width, height, excerptLimit int) Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return Model{
		viewport:     vp,
		expansions:   &citation.Expansions{},
		excerptLimit: excerptLimit,
		md:           &markdown{},
		width:        width,
		height:       height,
	}
}

// Init implements the bubbletea component contract.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "pgup":
			m.viewport.ViewUp()
			return m, nil
		case "pgdown":
			m.viewport.ViewDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport, or the welcome screen while empty.
func (m Model) View() string {
	if m.IsEmpty() {
		return m.emptyView()
	}
	return m.viewport.View()
}

func (m Model) emptyView() string {
	var sb strings.Builder
	sb.WriteString(styles.AssistantMessage.Render(WelcomeText))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Timestamp.Render("Preguntas sugeridas:"))
	for i, q := range session.SuggestedQuestions {
		sb.WriteString("\n")
		sb.WriteString(styles.Suggestion.Render(styles.SuggestionKey.Render(fmt.Sprintf("[%d]", i+1)) + " " + q))
	}
	return sb.String()
}

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateContent()
}

// SetMessages replaces the rendered log.
func (m *Model) SetMessages(msgs []session.Message, inFlight bool) {
	m.messages = msgs
	m.inFlight = inFlight
	m.updateContent()
}

// ToggleLatestSources flips the source expansion of the most recent
// assistant answer. It reports whether there was anything to toggle.
func (m *Model) ToggleLatestSources() bool {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.IsUser() {
			continue
		}
		if citation.NewPanel(msg, m.excerptLimit).CanExpand() {
			m.expansions.Toggle(msg.ID)
			m.updateContent()
			return true
		}
		return false
	}
	return false
}

// IsExpanded reports whether message id has its sources expanded.
func (m Model) IsExpanded(id string) bool {
	return m.expansions.IsExpanded(id)
}

// IsEmpty reports whether the log is empty.
func (m Model) IsEmpty() bool {
	return len(m.messages) == 0 && !m.inFlight
}

func (m *Model) updateContent() {
	latest := -1
	for i := len(m.messages) - 1; i >= 0; i-- {
		if !m.messages[i].IsUser() {
			latest = i
			break
		}
	}

	var content strings.Builder
	for i, msg := range m.messages {
		panel := m.expansions.Panel(msg, m.excerptLimit)
		content.WriteString(renderMessage(msg, m.width, m.md, panel, i == latest))
		if i < len(m.messages)-1 {
			content.WriteString("\n\n")
		}
	}
	if m.inFlight {
		content.WriteString("\n\n")
		content.WriteString(styles.StatusBarBusy.Render(TypingText))
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}
