package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/views/files"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/views/knowledge"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/views/tasks"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	filesView     *files.View
	knowledgeView *knowledge.View
	tasksView     *tasks.View
	chatView      *chat.View

	// statusBar shows backend mode, notifications and key hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error reported by a view.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first window size has been received.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		filesView:     files.NewView(s, ports.Files),
		knowledgeView: knowledge.NewView(s, ports.Knowledge),
		tasksView:     tasks.NewView(s, ports.NewMonitor),
		chatView:      chat.NewView(s, ports.NewChat),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewMenu,
	}
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.filesView.SetContext(ctx)
	a.knowledgeView.SetContext(ctx)
	a.tasksView.SetContext(ctx)
	a.chatView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("kbadmin"),
		a.checkHealth(),
	)
}

func (a *App) checkHealth() tea.Cmd {
	if a.ports.Health == nil {
		return nil
	}
	ctx := a.ctx
	health := a.ports.Health
	return func() tea.Msg {
		res, err := health.Check(ctx)
		return messages.HealthChecked{Result: res, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.leave(a.currentView)
			return a, tea.Quit
		}
		return a, a.updateActive(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.Quit:
		a.leave(a.currentView)
		return a, tea.Quit

	case messages.HealthChecked:
		return a, a.handleHealth(msg)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.statusBar.Notify(messages.LevelError, domain.ServerMessage(msg.Err))

	case messages.Notify, messages.NotificationExpired, messages.BackendMode:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.FilesLoaded, messages.FileUploaded, messages.FileDeleted, messages.FilesPromoted:
		a.filesView, cmd = a.filesView.Update(msg)
		a.err = a.filesView.Err()
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentsDeleted:
		a.knowledgeView, cmd = a.knowledgeView.Update(msg)
		a.err = a.knowledgeView.Err()
		return a, cmd

	case messages.TasksUpdated, messages.TaskMonitorClosed:
		a.tasksView, cmd = a.tasksView.Update(msg)
		return a, cmd

	case messages.ChatAnswered, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd
	}

	return a, a.updateActive(msg)
}

// updateActive forwards msg to the active view.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
	case messages.ViewKnowledge:
		a.knowledgeView, cmd = a.knowledgeView.Update(msg)
	case messages.ViewTasks:
		a.tasksView, cmd = a.tasksView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, a.keymap.Back) || key.Matches(k, a.keymap.Quit)) {
			return a.switchTo(messages.ViewMenu)
		}
	}
	return cmd
}

// switchTo leaves the current view and enters view.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view != a.currentView {
		a.leave(a.currentView)
	}
	a.currentView = view
	a.statusBar.SetBindings(a.bindings(view))

	switch view {
	case messages.ViewFiles:
		return a.filesView.Init()
	case messages.ViewKnowledge:
		return a.knowledgeView.Init()
	case messages.ViewTasks:
		return a.tasksView.Enter()
	case messages.ViewChat:
		return a.chatView.Enter()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// leave releases resources held by view: the task monitor and chat session.
func (a *App) leave(view messages.ViewType) {
	switch view {
	case messages.ViewTasks:
		a.tasksView.Leave()
	case messages.ViewChat:
		a.chatView.Leave()
	case messages.ViewMenu, messages.ViewFiles, messages.ViewKnowledge, messages.ViewHelp:
	}
}

func (a *App) bindings(view messages.ViewType) []key.Binding {
	switch view {
	case messages.ViewFiles:
		return a.keymap.FilesHelp()
	case messages.ViewKnowledge:
		return a.keymap.KnowledgeHelp()
	case messages.ViewTasks:
		return a.keymap.TasksHelp()
	case messages.ViewChat:
		return a.keymap.ChatHelp()
	case messages.ViewMenu:
		return []key.Binding{a.keymap.Select, a.keymap.Quit}
	default:
		return a.keymap.ShortHelp()
	}
}

func (a *App) handleHealth(msg messages.HealthChecked) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		return messages.NotifyErr("Backend health check failed", msg.Err)
	}
	a.statusBar.SetSimulated(msg.Result.Simulated)
	if msg.Result.Simulated {
		return a.statusBar.Notify(messages.LevelWarning, "Backend unreachable, showing simulated data")
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewFiles:
		body = a.filesView.View()
	case messages.ViewKnowledge:
		body = a.knowledgeView.View()
	case messages.ViewTasks:
		body = a.tasksView.View()
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view from the full key map.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")
	for _, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application and releases view resources on exit.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	a.leave(a.currentView)
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a view.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the first window size has been received.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions, reserving the last row for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	body := max(height-1, 1)
	a.menuView.SetDimensions(width, body)
	a.filesView.SetDimensions(width, body)
	a.knowledgeView.SetDimensions(width, body)
	a.tasksView.SetDimensions(width, body)
	a.chatView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}

// Ports returns the injected ports.
func (a *App) Ports() *Ports {
	return a.ports
}
