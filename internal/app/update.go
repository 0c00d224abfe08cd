package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lexbot/internal/components/toast"
	"lexbot/internal/messages"
	"lexbot/internal/session"
	"lexbot/sdk/backend"
)

// Fixed rows around the chat: header, mascot, input (3 lines + border), status.
const chromeHeight = 1 + 1 + 5 + 1

// Update handles all application messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.SetWidth(msg.Width - 4)
		m.toasts.SetWidth(msg.Width)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}

	case messages.SessionEventMsg:
		if ev, ok := msg.Event.(session.NoticeRaised); ok {
			cmds = append(cmds, m.toasts.Add(ev.Notice))
		}
		cmds = append(cmds, m.refresh())
		m.layout()
		return m, tea.Batch(cmds...)

	case messages.HealthResultMsg:
		cmds = append(cmds, m.refresh())
		m.layout()
		return m, tea.Batch(cmds...)

	case messages.SubmitResultMsg:
		m.lastErr = nil
		if msg.Err != nil && !backend.IsValidation(msg.Err) {
			m.lastErr = msg.Err
		}
		cmds = append(cmds, m.refresh())
		m.layout()
		return m, tea.Batch(cmds...)

	case messages.PollMsg:
		if !m.state.InFlight {
			cmds = append(cmds, m.checkHealth(false))
		}
		cmds = append(cmds, m.poll())
		return m, tea.Batch(cmds...)

	case toast.DismissMsg:
		m.toasts, _ = m.toasts.Update(msg)
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.mascot, cmd = m.mascot.Update(msg)
		return m, cmd
	}

	if m.state.CanSubmit() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes global bindings. handled is false when the key should
// fall through to the input and the viewport.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		if m.state.InFlight && m.shared.cancelQuery() {
			return m, nil, true
		}
		return m, tea.Quit, true

	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.state.InFlight {
			return m, nil, true
		}
		if m.state.CanSubmit() {
			m.input.Reset()
		}
		return m, m.submit(question), true

	case "ctrl+r":
		return m, m.checkHealth(true), true

	case "ctrl+o":
		m.chat.ToggleLatestSources()
		return m, nil, true

	case "1", "2", "3", "4":
		if !m.chat.IsEmpty() || m.input.Value() != "" {
			return m, nil, false
		}
		idx := int(key[0] - '1')
		if idx >= len(session.SuggestedQuestions) {
			return m, nil, false
		}
		return m, m.submit(session.SuggestedQuestions[idx]), true
	}
	return m, nil, false
}

// refresh pulls a fresh snapshot into the components.
func (m *Model) refresh() tea.Cmd {
	m.state = m.session.Snapshot()
	m.chat.SetMessages(m.state.Messages, m.state.InFlight)

	var cmds []tea.Cmd
	cmds = append(cmds, m.mascot.SetMood(m.state.Mood))
	if m.state.CanSubmit() {
		cmds = append(cmds, m.input.Focus())
	} else {
		m.input.Blur()
	}
	return tea.Batch(cmds...)
}

// layout gives the chat whatever height the other sections leave.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	h := m.height - chromeHeight
	if m.showBanner() {
		h--
	}
	if m.toasts.HasToasts() {
		h -= lipgloss.Height(m.toasts.View())
	}
	if h < 3 {
		h = 3
	}
	m.chat.SetSize(m.width, h)
}

func (m Model) showBanner() bool {
	return m.state.Checked && m.state.Connectivity == session.ConnectivityOffline
}
