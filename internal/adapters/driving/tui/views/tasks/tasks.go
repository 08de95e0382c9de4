// Package tasks provides the background task monitor view for the TUI.
package tasks

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

const (
	distributionWidth = 40
	progressWidth     = 20
)

// MonitorFactory creates a fresh task monitor for each visit to the view.
type MonitorFactory func() driving.TaskMonitor

// View shows live task progress. It owns a TaskMonitor between Enter and
// Leave; the monitor is always stopped when the view is left.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	newMonitor MonitorFactory
	ctx        context.Context

	monitor    driving.TaskMonitor
	generation int
	snapshot   driving.TaskSnapshot
	received   bool
	width      int
	height     int
}

// NewView creates a new tasks view.
func NewView(s *styles.Styles, newMonitor MonitorFactory) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		newMonitor: newMonitor,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// SetContext sets the context the monitor runs under.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init is a no-op; polling starts in Enter.
func (v *View) Init() tea.Cmd {
	return nil
}

// Enter starts a new monitor and listens for its snapshots.
func (v *View) Enter() tea.Cmd {
	v.Leave()
	if v.newMonitor == nil {
		return messages.NotifyCmd(messages.LevelError, "task monitor not available")
	}

	v.generation++
	v.received = false
	v.snapshot = driving.TaskSnapshot{}
	v.monitor = v.newMonitor()
	if err := v.monitor.Start(v.ctx); err != nil {
		v.monitor = nil
		return messages.NotifyErr("Failed to start task polling", err)
	}
	return v.listen()
}

// Leave stops the monitor. It is safe to call when no monitor is running.
func (v *View) Leave() {
	if v.monitor == nil {
		return
	}
	_ = v.monitor.Stop()
	v.monitor = nil
}

func (v *View) listen() tea.Cmd {
	if v.monitor == nil {
		return nil
	}
	updates, gen := v.monitor.Updates(), v.generation
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return messages.TaskMonitorClosed{Generation: gen}
		}
		return messages.TasksUpdated{Generation: gen, Snapshot: snap}
	}
}

// Update handles messages for the tasks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.TasksUpdated:
		if v.monitor == nil || msg.Generation != v.generation {
			return v, nil
		}
		hadErr := v.snapshot.Err != nil
		v.snapshot = msg.Snapshot
		v.received = true

		cmds := []tea.Cmd{v.listen()}
		if msg.Snapshot.Err != nil {
			if !hadErr {
				cmds = append(cmds, messages.NotifyErr("Failed to refresh tasks", msg.Snapshot.Err))
			}
		} else {
			cmds = append(cmds, messages.BackendModeCmd(msg.Snapshot.Simulated))
		}
		return v, tea.Batch(cmds...)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(k, v.keymap.Pause):
		if v.monitor == nil {
			return v, nil
		}
		if v.monitor.State() == driving.PollPaused {
			v.monitor.Resume()
			return v, messages.NotifyCmd(messages.LevelInfo, "Polling resumed")
		}
		v.monitor.Pause()
		return v, messages.NotifyCmd(messages.LevelInfo, "Polling paused")

	case keymap.Matches(k, v.keymap.Reload):
		if v.monitor != nil {
			v.monitor.RefreshNow()
		}
	}
	return v, nil
}

// View renders the tasks view.
func (v *View) View() string {
	var b strings.Builder

	tasks := v.snapshot.Tasks
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Tasks (%d)", len(tasks))))
	b.WriteString("  " + v.renderState())
	if v.snapshot.Simulated {
		b.WriteString("  " + v.styles.Warning.Render("simulated data"))
	}
	b.WriteString("\n\n")

	switch {
	case !v.received:
		b.WriteString(v.styles.Muted.Render("Loading tasks..."))
	case len(tasks) == 0 && v.snapshot.Err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", domain.ServerMessage(v.snapshot.Err))))
	case len(tasks) == 0:
		b.WriteString(v.styles.Muted.Render("No tasks yet."))
	default:
		b.WriteString(v.renderDistribution(tasks))
		b.WriteString("\n\n")
		b.WriteString(v.renderTasks(tasks))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[p] pause/resume  [r] refresh now  [esc] back"))
	return b.String()
}

func (v *View) renderState() string {
	state := driving.PollStopped
	if v.monitor != nil {
		state = v.monitor.State()
	}
	text := ""
	switch state {
	case driving.PollActive:
		text = v.styles.Success.Render("● live")
	case driving.PollPaused:
		text = v.styles.Warning.Render("‖ paused")
	default:
		text = v.styles.Muted.Render("○ stopped")
	}
	if !v.snapshot.FetchedAt.IsZero() {
		text += v.styles.Muted.Render("  updated " + v.snapshot.FetchedAt.Local().Format("15:04:05"))
	}
	return text
}

// renderDistribution draws one bar segment per status, sized by its share
// of the tasks, followed by a legend.
func (v *View) renderDistribution(tasks []domain.TaskRecord) string {
	counts := domain.CountByStatus(tasks)
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	last := -1
	for i, c := range counts {
		if c.Count > 0 {
			last = i
		}
	}

	var bar, legend strings.Builder
	used := 0
	for i, c := range counts {
		if c.Count == 0 {
			continue
		}
		width := c.Count * distributionWidth / total
		if width == 0 {
			width = 1
		}
		if i == last || used+width > distributionWidth {
			width = max(distributionWidth-used, 0)
		}
		used += width
		style := v.styles.Status(c.Status)
		bar.WriteString(style.Render(strings.Repeat("█", width)))
		legend.WriteString(style.Render(fmt.Sprintf("%s %d", c.Status.Label(), c.Count)))
		legend.WriteString("  ")
	}
	if used < distributionWidth {
		bar.WriteString(v.styles.Muted.Render(strings.Repeat("░", distributionWidth-used)))
	}

	active := domain.ActiveTasks(tasks)
	return bar.String() + "\n" + strings.TrimRight(legend.String(), " ") +
		v.styles.Muted.Render(fmt.Sprintf("  (%d active)", active))
}

func (v *View) renderTasks(tasks []domain.TaskRecord) string {
	// two lines per task, leaving room for the header and help
	limit := (v.height - 10) / 2
	if limit < 1 {
		limit = 1
	}

	lines := make([]string, 0, 2*len(tasks))
	for i, t := range tasks {
		if i >= limit {
			lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(tasks)-limit)))
			break
		}
		name := t.TaskType
		if t.FilePath != "" {
			name += " " + domain.BaseName(t.FilePath)
		}
		lines = append(lines,
			fmt.Sprintf("%s %s %s %3d%%",
				v.styles.Normal.Render(fmt.Sprintf("%-32s", truncate(name, 32))),
				v.styles.Badge(t.Status),
				v.renderProgress(t),
				t.ClampedProgress()),
			v.styles.Muted.Render("    "+t.StatusLine()),
		)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderProgress(t domain.TaskRecord) string {
	filled := t.ClampedProgress() * progressWidth / 100
	style := v.styles.Status(t.Status)
	return style.Render(strings.Repeat("█", filled)) +
		v.styles.Muted.Render(strings.Repeat("░", progressWidth-filled))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Snapshot returns the latest snapshot received.
func (v *View) Snapshot() driving.TaskSnapshot {
	return v.snapshot
}

// Monitor returns the running monitor, or nil when the view is not active.
func (v *View) Monitor() driving.TaskMonitor {
	return v.monitor
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
