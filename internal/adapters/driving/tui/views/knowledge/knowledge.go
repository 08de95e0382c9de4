// Package knowledge provides the knowledge base documents view for the TUI.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// ErrServiceUnavailable is reported when the view has no knowledge service.
var ErrServiceUnavailable = errors.New("knowledge service not available")

// View lists knowledge base documents with a stats header and bulk delete.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.KnowledgeService
	ctx     context.Context

	list       *list.Checklist
	docs       []domain.DocumentRecord
	stats      domain.KnowledgeStats
	confirming []string
	loading    bool
	simulated  bool
	err        error
	width      int
	height     int
}

// NewView creates a new knowledge base view.
func NewView(s *styles.Styles, service driving.KnowledgeService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		ctx:     context.Background(),
		list:    list.NewChecklist(s),
		width:   80,
		height:  24,
	}
}

// SetContext sets the context used for backend calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.confirming = nil
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	v.loading = true
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.DocumentsLoaded{Err: ErrServiceUnavailable}
		}
		res, err := service.List(ctx)
		return messages.DocumentsLoaded{Result: res, Err: err}
	}
}

// Update handles messages for the knowledge view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != nil {
			return v.handleConfirmKey(msg)
		}
		return v.handleKey(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, messages.NotifyErr("Failed to load documents", msg.Err)
		}
		v.err = nil
		v.simulated = msg.Result.Simulated
		v.setDocuments(msg.Result.Value)
		return v, messages.BackendModeCmd(msg.Result.Simulated)

	case messages.DocumentsDeleted:
		if msg.Err != nil {
			return v, messages.NotifyErr("Delete failed", msg.Err)
		}
		report := msg.Result.Value
		text := fmt.Sprintf("Deleted %d document(s)", report.Successful)
		if report.Failed > 0 {
			text += fmt.Sprintf(", %d failed", report.Failed)
		}
		v.list.Selection().Clear()
		return v, tea.Batch(messages.NotifyResult(text, msg.Result.Simulated), v.reload())
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(k, v.keymap.Reload):
		return v, v.reload()

	case keymap.Matches(k, v.keymap.Delete):
		paths := v.list.Selected()
		if len(paths) == 0 {
			return v, messages.NotifyCmd(messages.LevelWarning, "Select documents with space first")
		}
		v.confirming = paths
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Confirm):
		paths := v.confirming
		v.confirming = nil
		return v, v.remove(paths)
	case keymap.Matches(k, v.keymap.Deny):
		v.confirming = nil
	}
	return v, nil
}

func (v *View) remove(paths []string) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.DocumentsDeleted{Paths: paths, Err: ErrServiceUnavailable}
		}
		res, err := service.Delete(ctx, paths)
		return messages.DocumentsDeleted{Paths: paths, Result: res, Err: err}
	}
}

func (v *View) setDocuments(docs []domain.DocumentRecord) {
	v.docs = docs
	if v.service != nil {
		v.stats = v.service.Stats(docs)
	} else {
		v.stats = domain.ComputeKnowledgeStats(docs)
	}

	rows := make([]list.Row, len(docs))
	for i, d := range docs {
		name := d.FileName
		if name == "" {
			name = domain.BaseName(d.OriginalPath)
		}
		detail := fmt.Sprintf("%d chunks", d.ChunksCount)
		if d.FileType != "" {
			detail = d.FileType + "  " + detail
		}
		if d.FileSize != nil {
			detail += "  " + domain.FormatSize(*d.FileSize)
		}
		rows[i] = list.Row{
			ID:     d.OriginalPath,
			Label:  name,
			Badge:  v.styles.Badge(d.Status),
			Detail: detail,
		}
	}
	v.list.SetRows(rows)
}

// View renders the knowledge view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Knowledge Base"))
	if v.simulated {
		b.WriteString("  " + v.styles.Warning.Render("simulated data"))
	}
	b.WriteString("\n")
	b.WriteString(v.renderStats())
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.docs) == 0:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil && len(v.docs) == 0:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", domain.ServerMessage(v.err))))
	case len(v.docs) == 0:
		b.WriteString(v.styles.Muted.Render("The knowledge base is empty. Add files from the Files view."))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.confirming != nil {
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete %d document(s) from the knowledge base? [y/N]", len(v.confirming))))
	} else {
		b.WriteString(v.styles.Help.Render("[space] toggle  [a] all  [d] delete selected  [r] reload  [esc] back"))
	}

	return b.String()
}

func (v *View) renderStats() string {
	s := v.stats
	return v.styles.Muted.Render(fmt.Sprintf("%d documents  %d chunks  ", s.Documents, s.Chunks)) +
		v.styles.Success.Render(fmt.Sprintf("%d completed", s.Completed)) + "  " +
		v.styles.Subtitle.Render(fmt.Sprintf("%d processing", s.Processing)) + "  " +
		v.styles.Error.Render(fmt.Sprintf("%d failed", s.Failed))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-8)
}

// Documents returns the current document list.
func (v *View) Documents() []domain.DocumentRecord {
	return v.docs
}

// Stats returns the summary of the current list.
func (v *View) Stats() domain.KnowledgeStats {
	return v.stats
}

// Selected returns the selected document paths.
func (v *View) Selected() []string {
	return v.list.Selected()
}

// Confirming reports whether a delete confirmation is showing.
func (v *View) Confirming() bool {
	return v.confirming != nil
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
