// Package app is the interactive terminal client: a bubbletea program that
// renders session snapshots and turns key presses into session operations.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"lexbot/internal/components/chat"
	"lexbot/internal/components/mascot"
	"lexbot/internal/components/toast"
	"lexbot/internal/messages"
	"lexbot/internal/session"
)

// Options configures the UI.
type Options struct {
	// ExcerptLimit is the source excerpt length; 0 uses the default.
	ExcerptLimit int
	// PollInterval enables a silent background health check; 0 disables it.
	PollInterval time.Duration
}

// SharedState holds what must survive bubbletea's model copies.
type SharedState struct {
	mu      sync.Mutex
	program *tea.Program
	// pending holds the cancel func of every submit command still running,
	// keyed by a per-command token. Commands queued before the model sees
	// the in-flight flag are rejected by the session but still register.
	pending map[uint64]context.CancelFunc
	nextTok uint64
}

// SetProgram sets the program reference
func (s *SharedState) SetProgram(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// send forwards msg to the program, dropping it when none is attached.
func (s *SharedState) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// track registers cancel and returns the token that releases it.
func (s *SharedState) track(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[uint64]context.CancelFunc)
	}
	s.nextTok++
	s.pending[s.nextTok] = cancel
	return s.nextTok
}

// release cancels and forgets only the entry registered under tok.
func (s *SharedState) release(tok uint64) {
	s.mu.Lock()
	cancel, ok := s.pending[tok]
	delete(s.pending, tok)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// cancelQuery aborts every running submit command. It reports whether there
// was any.
func (s *SharedState) cancelQuery() bool {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, cancel := range pending {
		cancel()
	}
	return len(pending) > 0
}

// Model is the main application model
type Model struct {
	session *session.Session
	opts    Options
	shared  *SharedState

	state   session.State
	chat    chat.Model
	input   textarea.Model
	toasts  toast.Model
	mascot  mascot.Model
	width   int
	height  int
	ready   bool
	lastErr error
}

// New creates the application model and subscribes it to sess.
func New(sess *session.Session, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Escribe tu pregunta legal..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")

	m := Model{
		session: sess,
		opts:    opts,
		shared:  &SharedState{},
		state:   sess.Snapshot(),
		chat:    chat.New(80, 20, opts.ExcerptLimit),
		input:   ta,
		toasts:  toast.New(),
		mascot:  mascot.New(),
	}

	shared := m.shared
	sess.Subscribe(func(ev session.Event) {
		shared.send(messages.SessionEventMsg{Event: ev})
	})
	return m
}

// SetProgram attaches the running program so session events reach Update.
func (m *Model) SetProgram(p *tea.Program) {
	m.shared.SetProgram(p)
}

// Init runs the silent startup health check.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.checkHealth(false)}
	if m.opts.PollInterval > 0 {
		cmds = append(cmds, m.poll())
	}
	return tea.Batch(cmds...)
}

func (m Model) checkHealth(announce bool) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		err := sess.CheckHealth(context.Background(), announce)
		return messages.HealthResultMsg{Announced: announce, Err: err}
	}
}

func (m Model) submit(question string) tea.Cmd {
	sess, shared := m.session, m.shared
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		defer shared.release(shared.track(cancel))

		err := sess.Submit(ctx, question)
		return messages.SubmitResultMsg{Question: question, Err: err}
	}
}

func (m Model) poll() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(time.Time) tea.Msg {
		return messages.PollMsg{}
	})
}
