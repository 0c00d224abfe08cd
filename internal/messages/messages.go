package messages

import "lexbot/internal/session"

// SessionEventMsg carries a session event into the bubbletea loop.
type SessionEventMsg struct {
	Event session.Event
}

// HealthResultMsg is sent when a health check started by the UI finishes.
type HealthResultMsg struct {
	Announced bool
	Err       error
}

// SubmitResultMsg is sent when a submission resolves.
type SubmitResultMsg struct {
	Question string
	Err      error
}

// PollMsg triggers a silent background health check.
type PollMsg struct{}
