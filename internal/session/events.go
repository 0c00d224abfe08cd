package session

// Event is a state transition published to subscribers.
type Event interface {
	event()
}

// MessageAppended is published for every message added to the log.
type MessageAppended struct {
	Message Message
}

// MoodChanged is published when the assistant mood changes.
type MoodChanged struct {
	From, To Mood
}

// ConnectivityChanged is published when connectivity changes value.
type ConnectivityChanged struct {
	From, To Connectivity
}

// InFlightChanged is published when a query starts or finishes.
type InFlightChanged struct {
	InFlight bool
}

// NoticeRaised asks the UI to show a transient notification.
type NoticeRaised struct {
	Notice Notice
}

func (MessageAppended) event()     {}
func (MoodChanged) event()         {}
func (ConnectivityChanged) event() {}
func (InFlightChanged) event()     {}
func (NoticeRaised) event()        {}

// NoticeLevel is the severity of a notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible notification. Retry marks notices that should
// offer the "retry connection" action.
type Notice struct {
	Level       NoticeLevel
	Title       string
	Description string
	Retry       bool
}
