package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"lexbot/internal/session"
)

const (
	// SuccessDuration is how long a success notice stays on screen.
	SuccessDuration = 3 * time.Second
	// ErrorDuration is how long an error notice stays on screen.
	ErrorDuration = 5 * time.Second
)

// RetryHint is appended to notices that offer a retry.
const RetryHint = "ctrl+r: reintentar"

// Toast is a single notice on screen.
type Toast struct {
	ID        string
	Notice    session.Notice
	Duration  time.Duration
	CreatedAt time.Time
}

// Model is the toast stack.
type Model struct {
	toasts    []Toast
	width     int
	maxToasts int
}

// New creates an empty toast stack.
func New() Model {
	return Model{
		toasts:    []Toast{},
		width:     80,
		maxToasts: 3,
	}
}

// SetWidth sets the available width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Add pushes a notice and returns the command that dismisses it.
func (m *Model) Add(n session.Notice) tea.Cmd {
	duration := SuccessDuration
	if n.Level == session.NoticeError {
		duration = ErrorDuration
	}

	t := Toast{
		ID:        uuid.NewString(),
		Notice:    n,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
	m.toasts = append(m.toasts, t)

	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[len(m.toasts)-m.maxToasts:]
	}

	return dismissAfter(t.ID, duration)
}

func dismissAfter(id string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{ID: id}
	})
}

// DismissMsg removes the toast with the given ID.
type DismissMsg struct {
	ID string
}

// Update handles dismissals.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(DismissMsg); ok {
		for i, t := range m.toasts {
			if t.ID == msg.ID {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
	}
	return m, nil
}

// View renders the stack, oldest first.
func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	views := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		views = append(views, renderToast(t, m.width))
	}
	return strings.Join(views, "\n")
}

// Toasts returns the notices on screen.
func (m Model) Toasts() []Toast {
	return append([]Toast(nil), m.toasts...)
}

// HasToasts reports whether any notice is on screen.
func (m Model) HasToasts() bool {
	return len(m.toasts) > 0
}
