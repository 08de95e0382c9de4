// Package files provides the uploaded files view for the TUI.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// ErrServiceUnavailable is reported when the view has no file service.
var ErrServiceUnavailable = errors.New("file service not available")

// Mode is the view's input mode.
type Mode int

const (
	// ModeBrowse navigates and selects files.
	ModeBrowse Mode = iota
	// ModeUpload reads a local path to upload.
	ModeUpload
	// ModeConfirmDelete waits for the operator to confirm a delete.
	ModeConfirmDelete
)

// View lists uploaded files and drives upload, delete and promotion.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.FileService
	ctx     context.Context

	list          *list.Checklist
	prompt        *input.Prompt
	files         []domain.FileRecord
	mode          Mode
	pendingDelete *domain.FileRecord
	loading       bool
	simulated     bool
	err           error
	width         int
	height        int
}

// NewView creates a new files view.
func NewView(s *styles.Styles, service driving.FileService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		ctx:     context.Background(),
		list:    list.NewChecklist(s),
		prompt:  input.NewPrompt(s, "Upload", "path to a local file, e.g. ~/docs/handbook.pdf"),
		width:   80,
		height:  24,
	}
}

// SetContext sets the context used for backend calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the file list.
func (v *View) Init() tea.Cmd {
	v.mode = ModeBrowse
	v.pendingDelete = nil
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	v.loading = true
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FilesLoaded{Err: ErrServiceUnavailable}
		}
		res, err := service.List(ctx)
		return messages.FilesLoaded{Result: res, Err: err}
	}
}

// Update handles messages for the files view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeUpload:
			return v.handleUploadKey(msg)
		case ModeConfirmDelete:
			return v.handleConfirmKey(msg)
		default:
			return v.handleBrowseKey(msg)
		}

	case messages.FilesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, messages.NotifyErr("Failed to load files", msg.Err)
		}
		v.err = nil
		v.simulated = msg.Result.Simulated
		v.setFiles(msg.Result.Value)
		return v, messages.BackendModeCmd(msg.Result.Simulated)

	case messages.FileUploaded:
		if msg.Err != nil {
			return v, messages.NotifyErr("Upload failed", msg.Err)
		}
		text := fmt.Sprintf("Uploaded %s", filepath.Base(msg.Path))
		return v, tea.Batch(messages.NotifyResult(text, msg.Result.Simulated), v.reload())

	case messages.FileDeleted:
		if msg.Err != nil {
			return v, messages.NotifyErr("Delete failed", msg.Err)
		}
		text := fmt.Sprintf("Deleted %s", domain.BaseName(msg.Path))
		return v, tea.Batch(messages.NotifyResult(text, msg.Result.Simulated), v.reload())

	case messages.FilesPromoted:
		if msg.Err != nil {
			return v, messages.NotifyErr("Add to knowledge base failed", msg.Err)
		}
		v.list.Selection().Clear()
		text := fmt.Sprintf("Queued %d file(s) for ingestion", len(msg.Paths))
		if msg.Result.Value.TaskID != "" {
			text += fmt.Sprintf(" (task %s)", msg.Result.Value.TaskID)
		}
		return v, messages.NotifyResult(text, msg.Result.Simulated)
	}

	if v.mode == ModeUpload {
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(k, v.keymap.Reload):
		return v, v.reload()

	case keymap.Matches(k, v.keymap.Upload):
		v.mode = ModeUpload
		v.prompt.Reset()
		return v, v.prompt.Focus()

	case keymap.Matches(k, v.keymap.Delete):
		row := v.list.Current()
		if row == nil {
			return v, nil
		}
		for i := range v.files {
			if v.files[i].Path == row.ID {
				f := v.files[i]
				v.pendingDelete = &f
				v.mode = ModeConfirmDelete
				break
			}
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Promote):
		paths := v.list.Selected()
		if len(paths) == 0 {
			return v, messages.NotifyCmd(messages.LevelWarning, "Select files with space first")
		}
		return v, v.promote(paths)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) handleUploadKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel are special
	case tea.KeyEsc:
		v.mode = ModeBrowse
		v.prompt.Blur()
		return v, nil
	case tea.KeyEnter:
		path := expandHome(v.prompt.TrimmedValue())
		v.mode = ModeBrowse
		v.prompt.Blur()
		if path == "" {
			return v, nil
		}
		return v, v.upload(path)
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Confirm):
		target := v.pendingDelete
		v.pendingDelete = nil
		v.mode = ModeBrowse
		if target == nil {
			return v, nil
		}
		return v, v.remove(target.Path)
	case keymap.Matches(k, v.keymap.Deny):
		v.pendingDelete = nil
		v.mode = ModeBrowse
	}
	return v, nil
}

func (v *View) upload(path string) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FileUploaded{Path: path, Err: ErrServiceUnavailable}
		}
		res, err := service.UploadPath(ctx, path)
		return messages.FileUploaded{Path: path, Result: res, Err: err}
	}
}

func (v *View) remove(path string) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FileDeleted{Path: path, Err: ErrServiceUnavailable}
		}
		res, err := service.Delete(ctx, path)
		return messages.FileDeleted{Path: path, Result: res, Err: err}
	}
}

func (v *View) promote(paths []string) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.FilesPromoted{Paths: paths, Err: ErrServiceUnavailable}
		}
		res, err := service.AddToKnowledgeBase(ctx, paths)
		return messages.FilesPromoted{Paths: paths, Result: res, Err: err}
	}
}

func (v *View) setFiles(files []domain.FileRecord) {
	v.files = files
	rows := make([]list.Row, len(files))
	for i, f := range files {
		name := f.Name
		if name == "" {
			name = f.BaseName()
		}
		detail := domain.FormatSize(f.Size)
		if !f.Modified.IsZero() {
			detail += "  " + f.Modified.Local().Format("2006-01-02 15:04")
		}
		rows[i] = list.Row{ID: f.Path, Label: name, Detail: detail}
	}
	v.list.SetRows(rows)
}

// View renders the files view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Files (%d)", len(v.files))))
	if v.simulated {
		b.WriteString("  " + v.styles.Warning.Render("simulated data"))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.files) == 0:
		b.WriteString(v.styles.Muted.Render("Loading files..."))
	case v.err != nil && len(v.files) == 0:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", domain.ServerMessage(v.err))))
	case len(v.files) == 0:
		b.WriteString(v.styles.Muted.Render("No files uploaded. Press u to upload one."))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	switch v.mode {
	case ModeUpload:
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] upload  [esc] cancel"))
	case ModeConfirmDelete:
		name := ""
		if v.pendingDelete != nil {
			name = v.pendingDelete.BaseName()
		}
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s? [y/N]", name)))
	default:
		b.WriteString(v.styles.Help.Render("[space] toggle  [a] all  [u] upload  [d] delete  [p] add to KB  [r] reload  [esc] back"))
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-8)
	v.prompt.SetWidth(width)
}

// Files returns the current file list.
func (v *View) Files() []domain.FileRecord {
	return v.files
}

// Selected returns the selected file paths.
func (v *View) Selected() []string {
	return v.list.Selected()
}

// Mode returns the input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Loading reports whether a reload is outstanding.
func (v *View) Loading() bool {
	return v.loading
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
