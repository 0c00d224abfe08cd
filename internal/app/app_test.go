package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbot/internal/messages"
	"lexbot/internal/session"
	"lexbot/sdk/backend"
)

type fakeBackend struct {
	mu        sync.Mutex
	healthErr error
	sources   int
	questions []string
	block     bool
	entered   chan struct{}
}

func (f *fakeBackend) Health(context.Context) (*backend.HealthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &backend.HealthResponse{Status: "healthy", DocumentsCount: backend.Int(3)}, nil
}

func (f *fakeBackend) Query(ctx context.Context, q string) (*backend.QueryResponse, error) {
	f.mu.Lock()
	f.questions = append(f.questions, q)
	block, entered, n := f.block, f.entered, f.sources
	f.mu.Unlock()

	if block {
		entered <- struct{}{}
		<-ctx.Done()
		return nil, &backend.Error{Kind: backend.KindUnreachable, Op: backend.OpQuery, Err: ctx.Err()}
	}

	resp := &backend.QueryResponse{Answer: "Respuesta", DocumentsConsulted: []string{"doc.pdf"}}
	for i := 0; i < n; i++ {
		resp.Sources = append(resp.Sources, backend.Source{Content: "texto", Source: "doc.pdf"})
	}
	return resp, nil
}

func (f *fakeBackend) asked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.questions...)
}

func newModel(t *testing.T, fb *fakeBackend) Model {
	t.Helper()
	sess := session.New(fb, session.WithRevertDelay(time.Hour))
	t.Cleanup(sess.Close)

	m := New(sess, Options{})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func startOnline(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, m.checkHealth(false)())
	require.True(t, m.state.Online())
	return m
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestStartupOnline(t *testing.T) {
	m := newModel(t, &fakeBackend{})
	assert.Contains(t, m.View(), "Verificando")

	m = startOnline(t, m)
	view := m.View()
	assert.Contains(t, view, "Conectado")
	assert.Contains(t, view, "3 documentos")
	assert.NotContains(t, view, BannerText)
	assert.True(t, m.input.Focused())
}

func TestStartupOfflineShowsBanner(t *testing.T) {
	m := newModel(t, &fakeBackend{healthErr: errors.New("down")})

	msg := m.checkHealth(false)()
	res, ok := msg.(messages.HealthResultMsg)
	require.True(t, ok)
	assert.False(t, res.Announced)
	assert.Error(t, res.Err)

	m, _ = update(t, m, msg)
	assert.True(t, m.showBanner())
	assert.Contains(t, m.View(), "Desconectado")
	assert.False(t, m.input.Focused())
}

func TestEnterSubmitsInput(t *testing.T) {
	fb := &fakeBackend{sources: 1}
	m := startOnline(t, newModel(t, fb))

	m.input.SetValue("  ¿Qué es una tutela?  ")
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"¿Qué es una tutela?"}, fb.asked())
	require.Len(t, m.state.Messages, 2)
	assert.Equal(t, session.MoodHappy, m.mascot.Mood())
	assert.Nil(t, m.lastErr)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	fb := &fakeBackend{}
	m := startOnline(t, newModel(t, fb))

	m.input.SetValue("   ")
	_, cmd := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, fb.asked())
}

func TestSuggestionKeys(t *testing.T) {
	fb := &fakeBackend{}
	m := startOnline(t, newModel(t, fb))

	m, cmd := update(t, m, runes("2"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{session.SuggestedQuestions[1]}, fb.asked())

	// Once the conversation has started the digits are plain input.
	m, _ = update(t, m, runes("3"))
	assert.Equal(t, "3", m.input.Value())
	assert.Len(t, fb.asked(), 1)
}

func TestSubmitWhileOfflineIsRejected(t *testing.T) {
	fb := &fakeBackend{healthErr: errors.New("down")}
	m := newModel(t, fb)
	m, _ = update(t, m, m.checkHealth(false)())

	m, cmd := update(t, m, runes("1"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Empty(t, fb.asked())
	assert.Empty(t, m.state.Messages)
	assert.Nil(t, m.lastErr)
}

func TestRetryIsAnnounced(t *testing.T) {
	m := newModel(t, &fakeBackend{})
	_, cmd := update(t, m, key(tea.KeyCtrlR))
	require.NotNil(t, cmd)

	res, ok := cmd().(messages.HealthResultMsg)
	require.True(t, ok)
	assert.True(t, res.Announced)
	assert.NoError(t, res.Err)
}

func TestNoticeEventsBecomeToasts(t *testing.T) {
	m := newModel(t, &fakeBackend{})
	m, cmd := update(t, m, messages.SessionEventMsg{Event: session.NoticeRaised{Notice: session.Notice{
		Level: session.NoticeSuccess,
		Title: "Conectado al backend correctamente",
	}}})
	assert.NotNil(t, cmd)
	assert.True(t, m.toasts.HasToasts())
	assert.Contains(t, m.View(), "Conectado al backend correctamente")
}

func TestToggleSources(t *testing.T) {
	fb := &fakeBackend{sources: 3}
	m := startOnline(t, newModel(t, fb))

	m.input.SetValue("pregunta")
	m, cmd := update(t, m, key(tea.KeyEnter))
	m, _ = update(t, m, cmd())

	id := m.state.Messages[1].ID
	assert.False(t, m.chat.IsExpanded(id))
	assert.Contains(t, m.View(), "Ver 2 fuentes adicionales")

	m, _ = update(t, m, key(tea.KeyCtrlO))
	assert.True(t, m.chat.IsExpanded(id))
	assert.Contains(t, m.View(), "Ocultar 2 fuentes adicionales")
}

func TestEscQuitsWhenIdle(t *testing.T) {
	m := newModel(t, &fakeBackend{})
	_, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCtrlCCancelsPendingQuery(t *testing.T) {
	fb := &fakeBackend{block: true, entered: make(chan struct{}, 1)}
	m := startOnline(t, newModel(t, fb))

	m.input.SetValue("pregunta lenta")
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-fb.entered

	m, _ = update(t, m, messages.SessionEventMsg{Event: session.InFlightChanged{InFlight: true}})
	require.True(t, m.state.InFlight)
	assert.Contains(t, m.View(), "Esperando respuesta")

	m, quit := update(t, m, key(tea.KeyCtrlC))
	assert.Nil(t, quit)

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("query was not cancelled")
	}
	res := msg.(messages.SubmitResultMsg)
	require.Error(t, res.Err)

	m, _ = update(t, m, res)
	assert.False(t, m.state.InFlight)
	assert.Equal(t, session.ConnectivityOffline, m.state.Connectivity)
	assert.Error(t, m.lastErr)
}

func TestPollRearms(t *testing.T) {
	m := newModel(t, &fakeBackend{})
	m.opts.PollInterval = time.Minute

	_, cmd := update(t, m, messages.PollMsg{})
	assert.NotNil(t, cmd)
}

func TestQueuedSubmitsKeepTheCancelHandle(t *testing.T) {
	fb := &fakeBackend{block: true, entered: make(chan struct{}, 1)}
	m := startOnline(t, newModel(t, fb))

	// Both presses land before the in-flight event refreshes the model.
	m, first := update(t, m, runes("1"))
	require.NotNil(t, first)
	m, second := update(t, m, runes("1"))
	require.NotNil(t, second)

	done := make(chan tea.Msg, 1)
	go func() { done <- first() }()
	<-fb.entered

	rejected, ok := second().(messages.SubmitResultMsg)
	require.True(t, ok)
	require.ErrorIs(t, rejected.Err, session.ErrQueryInFlight)

	select {
	case <-done:
		t.Fatal("the rejected command cancelled the pending query")
	case <-time.After(100 * time.Millisecond):
	}

	m, _ = update(t, m, messages.SessionEventMsg{Event: session.InFlightChanged{InFlight: true}})
	require.True(t, m.state.InFlight)

	_, cmd := update(t, m, key(tea.KeyCtrlC))
	assert.Nil(t, cmd, "ctrl+c must cancel the query, not quit")

	select {
	case msg := <-done:
		res := msg.(messages.SubmitResultMsg)
		assert.Error(t, res.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("query was not cancelled")
	}
	assert.Len(t, fb.asked(), 1)
}
