package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// stubMonitor implements driving.TaskMonitor and records lifecycle calls.
type stubMonitor struct {
	started bool
	stopped bool
	updates chan driving.TaskSnapshot
}

func newStubMonitor() *stubMonitor {
	return &stubMonitor{updates: make(chan driving.TaskSnapshot, 1)}
}

func (m *stubMonitor) Start(context.Context) error { m.started = true; return nil }
func (m *stubMonitor) Stop() error {
	if !m.stopped {
		m.stopped = true
		close(m.updates)
	}
	return nil
}
func (m *stubMonitor) Pause() {}
func (m *stubMonitor) Resume() {}
func (m *stubMonitor) RefreshNow() {}
func (m *stubMonitor) State() driving.PollState { return driving.PollActive }
func (m *stubMonitor) Snapshot() driving.TaskSnapshot { return driving.TaskSnapshot{} }
func (m *stubMonitor) Updates() <-chan driving.TaskSnapshot {
	return m.updates
}

// stubSession implements driving.ChatSession and records Close.
type stubSession struct {
	closed bool
}

func (s *stubSession) ID() string { return "session" }
func (s *stubSession) Ask(string) (driving.PendingQuery, error) {
	return nil, domain.ErrQueryInFlight
}
func (s *stubSession) Submit(context.Context, string) (domain.ChatTurn, error) {
	return domain.ChatTurn{}, domain.ErrQueryInFlight
}
func (s *stubSession) Clear() {}
func (s *stubSession) Close() { s.closed = true }
func (s *stubSession) Turns() []domain.ChatTurn { return nil }
func (s *stubSession) InFlight() bool { return false }

type harness struct {
	app      *App
	monitors []*stubMonitor
	sessions []*stubSession
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}
	ports := validPorts()
	ports.NewMonitor = func() driving.TaskMonitor {
		m := newStubMonitor()
		h.monitors = append(h.monitors, m)
		return m
	}
	ports.NewChat = func() driving.ChatSession {
		s := &stubSession{}
		h.sessions = append(h.sessions, s)
		return s
	}
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.app = app
	return h
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(validPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := validPorts()
	ports.Files = nil

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingFileService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(validPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := app.WithContext(ctx)

	assert.Same(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(validPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(validPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Equal(t, 120, app.StatusBar().Width())
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := NewApp(validPorts())

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_MenuWithStatusBar(t *testing.T) {
	h := newHarness(t)

	out := h.app.View()

	assert.Contains(t, out, "kbadmin")
	assert.Contains(t, out, "connecting")
}

func TestApp_ViewChanged_FilesLoadsList(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(messages.ViewChanged{View: messages.ViewFiles})

	assert.Equal(t, messages.ViewFiles, h.app.CurrentView())
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(messages.FilesLoaded)
	require.True(t, ok, "got %T", msg)
	assert.NoError(t, loaded.Err)
}

func TestApp_TasksViewStopsMonitorOnLeave(t *testing.T) {
	h := newHarness(t)

	h.app.Update(messages.ViewChanged{View: messages.ViewTasks})
	require.Len(t, h.monitors, 1)
	assert.True(t, h.monitors[0].started)

	h.app.Update(messages.ViewChanged{View: messages.ViewMenu})

	assert.True(t, h.monitors[0].stopped)
	assert.Equal(t, messages.ViewMenu, h.app.CurrentView())
}

func TestApp_TasksViewNewMonitorPerVisit(t *testing.T) {
	h := newHarness(t)

	h.app.Update(messages.ViewChanged{View: messages.ViewTasks})
	h.app.Update(messages.ViewChanged{View: messages.ViewMenu})
	h.app.Update(messages.ViewChanged{View: messages.ViewTasks})

	require.Len(t, h.monitors, 2)
	assert.True(t, h.monitors[0].stopped)
	assert.False(t, h.monitors[1].stopped)
}

func TestApp_ChatViewClosesSessionOnLeave(t *testing.T) {
	h := newHarness(t)

	h.app.Update(messages.ViewChanged{View: messages.ViewChat})
	require.Len(t, h.sessions, 1)

	h.app.Update(messages.ViewChanged{View: messages.ViewFiles})

	assert.True(t, h.sessions[0].closed)
}

func TestApp_CtrlCStopsMonitorAndQuits(t *testing.T) {
	h := newHarness(t)
	h.app.Update(messages.ViewChanged{View: messages.ViewTasks})

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, h.monitors[0].stopped)
}

func TestApp_QuitMessage(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_NotifyGoesToStatusBar(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(messages.Notify{Level: messages.LevelSuccess, Text: "Uploaded a.pdf"})

	assert.NotNil(t, cmd, "expiry tick")
	assert.Equal(t, "Uploaded a.pdf", h.app.StatusBar().Message())
	assert.Contains(t, h.app.View(), "Uploaded a.pdf")
}

func TestApp_BackendModeGoesToStatusBar(t *testing.T) {
	h := newHarness(t)

	h.app.Update(messages.BackendMode{Simulated: true})

	assert.Equal(t, status.ModeSimulated, h.app.StatusBar().Mode())
}

func TestApp_HealthChecked(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		h := newHarness(t)

		_, cmd := h.app.Update(messages.HealthChecked{Result: domain.Live(domain.Health{Status: "ok"})})

		assert.Nil(t, cmd)
		assert.Equal(t, status.ModeLive, h.app.StatusBar().Mode())
	})

	t.Run("simulated", func(t *testing.T) {
		h := newHarness(t)

		_, cmd := h.app.Update(messages.HealthChecked{Result: domain.Simulated(domain.Health{Status: "ok"})})

		assert.NotNil(t, cmd)
		assert.Equal(t, status.ModeSimulated, h.app.StatusBar().Mode())
		assert.Equal(t, messages.LevelWarning, h.app.StatusBar().Level())
	})

	t.Run("server failure", func(t *testing.T) {
		h := newHarness(t)
		err := &domain.ServerError{StatusCode: 500, Message: "db down"}

		_, cmd := h.app.Update(messages.HealthChecked{Err: err})

		require.NotNil(t, cmd)
		assert.Equal(t, messages.Notify{Level: messages.LevelError, Text: "Backend health check failed: db down"}, cmd())
		assert.Equal(t, err, h.app.Err())
	})
}

func TestApp_InitRunsHealthCheck(t *testing.T) {
	ports := validPorts()
	ports.Health = &MockHealthService{Result: domain.Live(domain.Health{Status: "ok"})}
	app, err := NewApp(ports)
	require.NoError(t, err)

	msg := app.checkHealth()()

	checked, ok := msg.(messages.HealthChecked)
	require.True(t, ok)
	assert.False(t, checked.Result.Simulated)
}

func TestApp_ErrorOccurred(t *testing.T) {
	h := newHarness(t)
	err := errors.New("something broke")

	h.app.Update(messages.ErrorOccurred{Err: err})

	assert.Equal(t, err, h.app.Err())
	assert.Equal(t, messages.LevelError, h.app.StatusBar().Level())
}

func TestApp_HelpView(t *testing.T) {
	h := newHarness(t)
	h.app.Update(messages.ViewChanged{View: messages.ViewHelp})

	out := h.app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "pause/resume")

	h.app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, h.app.CurrentView())
}

func TestApp_MenuEnterNavigates(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewFiles}, cmd())
}

func TestApp_ResultMessagesRoutedWhileAway(t *testing.T) {
	h := newHarness(t)
	files := []domain.FileRecord{{Name: "a.pdf", Path: "uploads/a.pdf"}}

	h.app.Update(messages.FilesLoaded{Result: domain.Live(files)})

	assert.Equal(t, messages.ViewMenu, h.app.CurrentView())
	assert.Len(t, h.app.filesView.Files(), 1)
}

func TestApp_SetDimensions(t *testing.T) {
	app, _ := NewApp(validPorts())

	app.SetDimensions(100, 50)

	assert.Equal(t, 100, app.width)
	assert.Equal(t, 50, app.height)
}
