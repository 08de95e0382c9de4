// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// Row is one line of a Checklist.
type Row struct {
	// ID is the selection key.
	ID string

	// Label is the main text.
	Label string

	// Badge is rendered between the label and the detail, if set.
	Badge string

	// Detail is rendered muted after the label.
	Detail string
}

// Checklist is a scrollable list with a cursor and a multi-selection.
// The selection is reconciled against the rows on every SetRows call.
type Checklist struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	rows      []Row
	selection *domain.Selection
	cursor    int
	offset    int
	width     int
	height    int
}

// NewChecklist creates an empty checklist.
func NewChecklist(s *styles.Styles) *Checklist {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Checklist{
		styles:    s,
		keymap:    keymap.DefaultKeyMap(),
		selection: domain.NewSelection(),
		width:     80,
		height:    10,
	}
}

// Init initialises the checklist.
func (c *Checklist) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and selection keys.
func (c *Checklist) Update(msg tea.Msg) (*Checklist, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, c.keymap.Up):
		c.MoveUp()
	case keymap.Matches(k, c.keymap.Down):
		c.MoveDown()
	case keymap.Matches(k, c.keymap.Toggle):
		if row := c.Current(); row != nil {
			c.selection.Toggle(row.ID)
		}
	case keymap.Matches(k, c.keymap.SelectAll):
		c.selection.ToggleAll()
	}
	return c, nil
}

// View renders the visible window of rows.
func (c *Checklist) View() string {
	if len(c.rows) == 0 {
		return c.styles.Muted.Render("No items")
	}

	visible := c.visibleCount()
	end := c.offset + visible
	if end > len(c.rows) {
		end = len(c.rows)
	}

	lines := make([]string, 0, visible+2)
	lines = append(lines, c.renderHeader())
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderRow(i))
	}
	if len(c.rows) > visible {
		lines = append(lines, c.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", c.offset+1, end, len(c.rows))))
	}
	return strings.Join(lines, "\n")
}

func (c *Checklist) renderHeader() string {
	box := "[ ]"
	if c.selection.AllSelected() {
		box = c.styles.Checked.Render("[x]")
	}
	return fmt.Sprintf("  %s %s", box, c.styles.Muted.Render(fmt.Sprintf("%d of %d selected", c.selection.Len(), len(c.rows))))
}

func (c *Checklist) renderRow(index int) string {
	row := c.rows[index]

	indicator := "  "
	if index == c.cursor {
		indicator = "> "
	}

	box := "[ ]"
	if c.selection.Has(row.ID) {
		box = c.styles.Checked.Render("[x]")
	}

	maxLabel := c.width/2 - 8
	if maxLabel < 10 {
		maxLabel = 10
	}
	label := row.Label
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}

	text := fmt.Sprintf("%-*s", maxLabel, label)
	if index == c.cursor {
		text = c.styles.Selected.Render(text)
	} else {
		text = c.styles.Normal.Render(text)
	}

	line := indicator + box + " " + text
	if row.Badge != "" {
		line += "  " + row.Badge
	}
	if row.Detail != "" {
		line += "  " + c.styles.Muted.Render(row.Detail)
	}
	return line
}

// SetRows replaces the rows, reconciles the selection against their IDs,
// and keeps the cursor within range.
func (c *Checklist) SetRows(rows []Row) {
	c.rows = rows
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	c.selection.Reconcile(ids)

	if c.cursor >= len(rows) {
		c.cursor = len(rows) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.adjustScroll()
}

// Rows returns the current rows.
func (c *Checklist) Rows() []Row {
	return c.rows
}

// Current returns the row under the cursor, or nil if the list is empty.
func (c *Checklist) Current() *Row {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return nil
	}
	return &c.rows[c.cursor]
}

// Cursor returns the cursor index.
func (c *Checklist) Cursor() int {
	return c.cursor
}

// Selection returns the underlying selection.
func (c *Checklist) Selection() *domain.Selection {
	return c.selection
}

// Selected returns the selected IDs in sorted order.
func (c *Checklist) Selected() []string {
	return c.selection.IDs()
}

// MoveUp moves the cursor up.
func (c *Checklist) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
		c.adjustScroll()
	}
}

// MoveDown moves the cursor down.
func (c *Checklist) MoveDown() {
	if c.cursor < len(c.rows)-1 {
		c.cursor++
		c.adjustScroll()
	}
}

func (c *Checklist) adjustScroll() {
	visible := c.visibleCount()
	if c.cursor < c.offset {
		c.offset = c.cursor
	} else if c.cursor >= c.offset+visible {
		c.offset = c.cursor - visible + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c *Checklist) visibleCount() int {
	// header and scroll indicator
	n := c.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

// SetDimensions sets the component dimensions.
func (c *Checklist) SetDimensions(width, height int) {
	c.width = width
	c.height = height
	c.adjustScroll()
}

// Count returns the number of rows.
func (c *Checklist) Count() int {
	return len(c.rows)
}

// IsEmpty returns whether the list has no rows.
func (c *Checklist) IsEmpty() bool {
	return len(c.rows) == 0
}
