// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewFiles manages raw uploaded files.
	ViewFiles
	// ViewKnowledge manages knowledge base documents.
	ViewKnowledge
	// ViewTasks monitors background tasks.
	ViewTasks
	// ViewChat is the question and answer view.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewFiles:
		return "files"
	case ViewKnowledge:
		return "knowledge"
	case ViewTasks:
		return "tasks"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Level is the severity of a notification.
type Level int

const (
	// LevelInfo is a neutral notice.
	LevelInfo Level = iota
	// LevelSuccess reports a completed action.
	LevelSuccess
	// LevelWarning reports degraded operation, such as simulated data.
	LevelWarning
	// LevelError reports a failed action.
	LevelError
)

// Notify asks the status bar to show a transient notification.
type Notify struct {
	Level Level
	Text  string
}

// NotificationExpired clears the notification with the given ID.
type NotificationExpired struct {
	ID int
}

// NotifyCmd returns a command that emits a Notify message.
func NotifyCmd(level Level, text string) tea.Cmd {
	return func() tea.Msg {
		return Notify{Level: level, Text: text}
	}
}

// NotifyErr returns a command that reports err as an error notification,
// using the backend's own message for server failures.
func NotifyErr(prefix string, err error) tea.Cmd {
	text := domain.ServerMessage(err)
	if prefix != "" {
		text = prefix + ": " + text
	}
	return NotifyCmd(LevelError, text)
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BackendMode reports whether the latest backend response was real or simulated.
type BackendMode struct {
	Simulated bool
}

// HealthChecked carries the result of the startup health check.
type HealthChecked struct {
	Result domain.Result[domain.Health]
	Err    error
}

// FilesLoaded carries the uploaded file list.
type FilesLoaded struct {
	Result domain.Result[[]domain.FileRecord]
	Err    error
}

// FileUploaded signals an upload attempt finished.
type FileUploaded struct {
	Path   string
	Result domain.Result[domain.Ack]
	Err    error
}

// FileDeleted signals a delete attempt finished.
type FileDeleted struct {
	Path   string
	Result domain.Result[domain.Ack]
	Err    error
}

// FilesPromoted signals the selection was queued for ingestion.
type FilesPromoted struct {
	Paths  []string
	Result domain.Result[domain.IngestAck]
	Err    error
}

// DocumentsLoaded carries the knowledge base document list.
type DocumentsLoaded struct {
	Result domain.Result[[]domain.DocumentRecord]
	Err    error
}

// DocumentsDeleted signals a bulk delete finished.
type DocumentsDeleted struct {
	Paths  []string
	Result domain.Result[domain.DeletionReport]
	Err    error
}

// TasksUpdated carries a snapshot published by the task monitor.
// Generation identifies the monitor instance so late snapshots from a
// stopped monitor can be discarded.
type TasksUpdated struct {
	Generation int
	Snapshot   driving.TaskSnapshot
}

// TaskMonitorClosed signals the monitor's update channel was closed.
type TaskMonitorClosed struct {
	Generation int
}

// ChatAnswered signals a pending query resolved and its turn was appended.
type ChatAnswered struct {
	SessionID string
	Turn      domain.ChatTurn
}

// BackendModeCmd returns a command that emits a BackendMode message.
func BackendModeCmd(simulated bool) tea.Cmd {
	return func() tea.Msg {
		return BackendMode{Simulated: simulated}
	}
}

// NotifyResult reports a completed action. Simulated results are shown as
// warnings so the operator knows nothing reached the backend.
func NotifyResult(text string, simulated bool) tea.Cmd {
	if simulated {
		return tea.Batch(NotifyCmd(LevelWarning, text+" (simulated)"), BackendModeCmd(true))
	}
	return tea.Batch(NotifyCmd(LevelSuccess, text), BackendModeCmd(false))
}
