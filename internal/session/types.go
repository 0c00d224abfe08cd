package session

import (
	"time"

	"lexbot/sdk/backend"
)

// Role is who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source is a cited excerpt and the document it was taken from.
type Source struct {
	Content  string
	Document string
}

// Message is one immutable entry of the conversation log.
type Message struct {
	ID                 string
	Role               Role
	Content            string
	Sources            []Source
	DocumentsConsulted []string
	CreatedAt          time.Time
	// Failed marks the assistant entry appended when a query fails.
	Failed bool
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool { return m.Role == RoleUser }

// HasSources reports whether the message carries citations.
func (m Message) HasSources() bool { return len(m.Sources) > 0 }

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]Source(nil), m.Sources...)
	}
	if m.DocumentsConsulted != nil {
		m.DocumentsConsulted = append([]string(nil), m.DocumentsConsulted...)
	}
	return m
}

func sourcesFrom(in []backend.Source) []Source {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		out = append(out, Source{Content: s.Content, Document: s.Source})
	}
	return out
}

// Connectivity is the backend reachability as last observed.
type Connectivity int

const (
	ConnectivityUnknown Connectivity = iota
	ConnectivityOnline
	ConnectivityOffline
)

func (c Connectivity) String() string {
	switch c {
	case ConnectivityOnline:
		return "online"
	case ConnectivityOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Mood is the assistant's display state.
type Mood string

const (
	MoodIdle     Mood = "idle"
	MoodThinking Mood = "thinking"
	MoodHappy    Mood = "happy"
	// MoodSpeaking is part of the mascot vocabulary but no transition
	// produces it.
	MoodSpeaking Mood = "speaking"
)

// State is a point-in-time copy of the session.
type State struct {
	Messages     []Message
	Connectivity Connectivity
	Mood         Mood
	InFlight     bool
	// Checked is true once any health check has completed.
	Checked bool
	// Documents and DocumentsCount come from the last successful health check.
	Documents      []string
	DocumentsCount int
}

// Online reports whether queries may be submitted connectivity-wise.
func (s State) Online() bool { return s.Connectivity == ConnectivityOnline }

// CanSubmit reports whether a non-empty question would be accepted now.
func (s State) CanSubmit() bool { return s.Online() && !s.InFlight }

// LastAssistant returns the most recent assistant message, if any.
func (s State) LastAssistant() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}
