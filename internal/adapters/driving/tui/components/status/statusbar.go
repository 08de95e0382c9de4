// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
)

// NotificationTTL is how long a notification stays visible.
const NotificationTTL = 4 * time.Second

// Mode describes what the backend indicator shows.
type Mode string

const (
	ModeUnknown   Mode = "unknown"
	ModeLive      Mode = "live"
	ModeSimulated Mode = "simulated"
)

// Bar displays the latest notification, the backend mode and keybinding hints.
// A newer notification replaces the current one; each expires after
// NotificationTTL unless replaced first.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bindings []key.Binding
	mode     Mode
	level    messages.Level
	message  string
	seq      int
	ttl      time.Duration
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		bindings: km.ShortHelp(),
		mode:     ModeUnknown,
		ttl:      NotificationTTL,
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles notification messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.Notify:
		return s, s.Notify(msg.Level, msg.Text)
	case messages.NotificationExpired:
		if msg.ID == s.seq {
			s.message = ""
		}
	case messages.BackendMode:
		s.SetSimulated(msg.Simulated)
	}
	return s, nil
}

// Notify shows text and returns a command that expires it.
func (s *Bar) Notify(level messages.Level, text string) tea.Cmd {
	s.seq++
	s.level = level
	s.message = text
	id := s.seq
	return tea.Tick(s.ttl, func(time.Time) tea.Msg {
		return messages.NotificationExpired{ID: id}
	})
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderMode()
	if s.message != "" {
		left += " " + s.renderMessage()
	}
	right := s.renderHints()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderMode() string {
	switch s.mode {
	case ModeLive:
		return s.styles.Success.Render("● live")
	case ModeSimulated:
		return s.styles.Warning.Render("● simulated")
	default:
		return s.styles.Muted.Render("○ connecting")
	}
}

func (s *Bar) renderMessage() string {
	switch s.level {
	case messages.LevelSuccess:
		return s.styles.Success.Render(s.message)
	case messages.LevelWarning:
		return s.styles.Warning.Render(s.message)
	case messages.LevelError:
		return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
	default:
		return s.styles.Normal.Render(s.message)
	}
}

func (s *Bar) renderHints() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetBindings sets the hints shown on the right.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetSimulated switches the backend indicator.
func (s *Bar) SetSimulated(simulated bool) {
	if simulated {
		s.mode = ModeSimulated
		return
	}
	s.mode = ModeLive
}

// Mode returns the backend indicator state.
func (s *Bar) Mode() Mode {
	return s.mode
}

// Message returns the visible notification text.
func (s *Bar) Message() string {
	return s.message
}

// Level returns the visible notification level.
func (s *Bar) Level() messages.Level {
	return s.level
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the visible notification.
func (s *Bar) Clear() {
	s.message = ""
}
