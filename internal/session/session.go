// Package session owns the conversation state of one running client: the
// message log, backend connectivity, the in-flight query flag and the
// assistant mood. It is the only writer of that state; user interfaces read
// snapshots and react to published events.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexbot/sdk/backend"
)

// OpSubmit names submission failures raised locally.
const OpSubmit = "submit"

// DefaultRevertDelay is how long the mood stays happy after an answer.
const DefaultRevertDelay = 2 * time.Second

var (
	// ErrQueryInFlight rejects a submission while another is pending.
	ErrQueryInFlight = errors.New("a query is already in flight")
	// ErrNotConnected rejects a submission while the backend is not online.
	ErrNotConnected = errors.New("backend is not connected")
)

// Backend is the network collaborator. *backend.Client implements it.
type Backend interface {
	Health(ctx context.Context) (*backend.HealthResponse, error)
	Query(ctx context.Context, question string) (*backend.QueryResponse, error)
}

var _ Backend = (*backend.Client)(nil)

// Option configures a Session.
type Option func(*Session)

// WithRevertDelay sets how long the happy mood lasts before reverting to idle.
func WithRevertDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.revertDelay = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *backend.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is the single source of truth for conversation state. It is safe
// for concurrent use: health checks may run while a query is pending.
type Session struct {
	backend     Backend
	logger      *backend.Logger
	now         func() time.Time
	revertDelay time.Duration

	mu             sync.Mutex
	messages       []Message
	connectivity   Connectivity
	checked        bool
	inFlight       bool
	mood           Mood
	documents      []string
	documentsCount int
	revert         *time.Timer
	revertGen      uint64
	subs           []func(Event)
	queue          []Event

	// emitMu serialises delivery so subscribers observe transitions in
	// the order they were applied.
	emitMu sync.Mutex
}

// New creates a session in its initial state: empty log, unknown
// connectivity, idle mood.
func New(b Backend, opts ...Option) *Session {
	s := &Session{
		backend:      b,
		logger:       backend.GetLogger(),
		now:          time.Now,
		revertDelay:  DefaultRevertDelay,
		connectivity: ConnectivityUnknown,
		mood:         MoodIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every future event. fn runs on the goroutine
// that caused the transition and must not call back into Submit or
// CheckHealth synchronously.
func (s *Session) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]Message, len(s.messages))
	for i, m := range s.messages {
		msgs[i] = m.clone()
	}
	return State{
		Messages:       msgs,
		Connectivity:   s.connectivity,
		Mood:           s.mood,
		InFlight:       s.inFlight,
		Checked:        s.checked,
		Documents:      append([]string(nil), s.documents...),
		DocumentsCount: s.documentsCount,
	}
}

// Start runs the silent startup health check. A failure only marks the
// backend offline; no notice is raised.
func (s *Session) Start(ctx context.Context) error {
	return s.CheckHealth(ctx, false)
}

// Retry is the user's explicit "retry connection" action.
func (s *Session) Retry(ctx context.Context) error {
	return s.CheckHealth(ctx, true)
}

// CheckHealth probes the backend. Success marks it online whatever the prior
// state; failure marks it offline. With announce set, the outcome is also
// raised as a notice.
func (s *Session) CheckHealth(ctx context.Context, announce bool) error {
	health, err := s.backend.Health(ctx)

	s.mu.Lock()
	s.checked = true
	if err != nil {
		s.logger.Warn("health check failed", "error", err, "announce", announce)
		s.setConnectivityLocked(ConnectivityOffline)
		if announce {
			s.enqueueLocked(NoticeRaised{Notice: noticeConnectFailed})
		}
		s.mu.Unlock()
		s.flush()
		return err
	}

	s.logger.Debug("health check ok", "status", health.Status, "documents", health.DocumentCount())
	s.documents = append([]string(nil), health.Documents...)
	s.documentsCount = health.DocumentCount()
	s.setConnectivityLocked(ConnectivityOnline)
	if announce {
		s.enqueueLocked(NoticeRaised{Notice: noticeConnected})
	}
	s.mu.Unlock()
	s.flush()
	return nil
}

// Submit sends question to the backend and records the exchange. It blocks
// until the query resolves.
//
// An empty question, a pending query, or a backend that is not online
// rejects the submission with a validation error and leaves the state
// unchanged (the offline case also raises a notice). Otherwise exactly one
// user message and one assistant message are appended, whatever the outcome.
func (s *Session) Submit(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)

	s.mu.Lock()
	switch {
	case question == "":
		s.mu.Unlock()
		return backend.NewValidationError(OpSubmit, backend.ErrEmptyQuestion)
	case s.inFlight:
		s.mu.Unlock()
		return backend.NewValidationError(OpSubmit, ErrQueryInFlight)
	case s.connectivity != ConnectivityOnline:
		s.enqueueLocked(NoticeRaised{Notice: noticeBackendUnavailable})
		s.mu.Unlock()
		s.flush()
		return backend.NewValidationError(OpSubmit, ErrNotConnected)
	}

	s.appendLocked(Message{
		ID:        newID("user"),
		Role:      RoleUser,
		Content:   question,
		CreatedAt: s.now(),
	})
	s.inFlight = true
	s.enqueueLocked(InFlightChanged{InFlight: true})
	s.cancelRevertLocked()
	s.setMoodLocked(MoodThinking)
	s.mu.Unlock()
	s.flush()

	defer s.finish()

	resp, err := s.backend.Query(ctx, question)
	if err != nil {
		s.fail(err)
		return err
	}
	s.succeed(resp)
	return nil
}

func (s *Session) succeed(resp *backend.QueryResponse) {
	s.mu.Lock()
	s.appendLocked(Message{
		ID:                 newID("assistant"),
		Role:               RoleAssistant,
		Content:            resp.Answer,
		Sources:            sourcesFrom(resp.Sources),
		DocumentsConsulted: append([]string{}, resp.DocumentsConsulted...),
		CreatedAt:          s.now(),
	})
	s.setMoodLocked(MoodHappy)
	s.scheduleRevertLocked()
	s.enqueueLocked(NoticeRaised{Notice: noticeAnswered})
	s.mu.Unlock()
	s.flush()
}

func (s *Session) fail(err error) {
	s.logger.Error("query failed", "kind", backend.KindOf(err).String(), "error", err)

	s.mu.Lock()
	s.setConnectivityLocked(ConnectivityOffline)
	s.appendLocked(Message{
		ID:        newID("error"),
		Role:      RoleAssistant,
		Content:   OfflineNotice,
		CreatedAt: s.now(),
		Failed:    true,
	})
	s.setMoodLocked(MoodIdle)
	s.enqueueLocked(NoticeRaised{Notice: queryFailedNotice(err)})
	s.mu.Unlock()
	s.flush()
}

// finish clears the in-flight flag on every exit path of Submit.
func (s *Session) finish() {
	s.mu.Lock()
	s.inFlight = false
	s.enqueueLocked(InFlightChanged{InFlight: false})
	s.mu.Unlock()
	s.flush()
}

// Close cancels a pending mood revert.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelRevertLocked()
	s.mu.Unlock()
}

func (s *Session) appendLocked(m Message) {
	s.messages = append(s.messages, m)
	s.enqueueLocked(MessageAppended{Message: m.clone()})
}

func (s *Session) setMoodLocked(to Mood) {
	if s.mood == to {
		return
	}
	from := s.mood
	s.mood = to
	s.enqueueLocked(MoodChanged{From: from, To: to})
}

func (s *Session) setConnectivityLocked(to Connectivity) {
	if s.connectivity == to {
		return
	}
	from := s.connectivity
	s.connectivity = to
	s.logger.Info("connectivity changed", "from", from.String(), "to", to.String())
	s.enqueueLocked(ConnectivityChanged{From: from, To: to})
}

// scheduleRevertLocked arms the happy → idle transition. The generation
// check makes a timer that fires after being superseded a no-op.
func (s *Session) scheduleRevertLocked() {
	s.cancelRevertLocked()
	gen := s.revertGen
	s.revert = time.AfterFunc(s.revertDelay, func() {
		s.mu.Lock()
		if s.revertGen != gen || s.mood != MoodHappy {
			s.mu.Unlock()
			return
		}
		s.revert = nil
		s.setMoodLocked(MoodIdle)
		s.mu.Unlock()
		s.flush()
	})
}

func (s *Session) cancelRevertLocked() {
	if s.revert != nil {
		s.revert.Stop()
		s.revert = nil
	}
	s.revertGen++
}

func (s *Session) enqueueLocked(ev Event) {
	s.queue = append(s.queue, ev)
}

// flush delivers queued events outside the state lock.
func (s *Session) flush() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	for {
		s.mu.Lock()
		queue := s.queue
		s.queue = nil
		subs := append([]func(Event){}, s.subs...)
		s.mu.Unlock()

		if len(queue) == 0 {
			return
		}
		for _, ev := range queue {
			for _, fn := range subs {
				fn(ev)
			}
		}
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
