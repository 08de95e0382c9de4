// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// SessionFactory creates a chat session for each visit to the view.
type SessionFactory func() driving.ChatSession

// View is a chat transcript with an input line. It owns one ChatSession
// between Enter and Leave; leaving closes the session so an answer that
// arrives later is dropped.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	newSession SessionFactory
	ctx        context.Context

	session  driving.ChatSession
	viewport viewport.Model
	spinner  spinner.Model
	prompt   *input.Prompt
	width    int
	height   int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, newSession SessionFactory) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	vp := viewport.New(80, 16)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		newSession: newSession,
		ctx:        context.Background(),
		viewport:   vp,
		spinner:    sp,
		prompt:     input.NewPrompt(s, "Ask", "Type a question about your documents..."),
		width:      80,
		height:     24,
	}
}

// SetContext sets the context used for queries.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init is a no-op; the session is created in Enter.
func (v *View) Init() tea.Cmd {
	return nil
}

// Enter opens a session if none is open and focuses the input.
func (v *View) Enter() tea.Cmd {
	if v.session == nil {
		if v.newSession == nil {
			return messages.NotifyCmd(messages.LevelError, "chat not available")
		}
		v.session = v.newSession()
	}
	v.refresh()
	return tea.Batch(v.prompt.Focus(), v.prompt.Init())
}

// Leave closes the session.
func (v *View) Leave() {
	if v.session == nil {
		return
	}
	v.session.Close()
	v.session = nil
	v.prompt.Reset()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if v.session == nil || !v.session.InFlight() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ChatAnswered:
		if v.session == nil || msg.SessionID != v.session.ID() {
			return v, nil
		}
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(k, v.keymap.ClearChat):
		if v.session != nil {
			v.session.Clear()
			v.refresh()
		}
		return v, messages.NotifyCmd(messages.LevelInfo, "Conversation cleared")

	case keymap.Matches(k, v.keymap.Send):
		return v, v.submit()

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	if v.session == nil {
		return nil
	}

	pending, err := v.session.Ask(v.prompt.Value())
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return nil
	case errors.Is(err, domain.ErrQueryInFlight):
		return messages.NotifyCmd(messages.LevelInfo, "Still waiting for the previous answer")
	case err != nil:
		return messages.NotifyErr("", err)
	}

	v.prompt.Reset()
	v.refresh()

	ctx, sessionID := v.ctx, v.session.ID()
	resolve := func() tea.Msg {
		turn := pending.Resolve(ctx)
		return messages.ChatAnswered{SessionID: sessionID, Turn: turn}
	}
	return tea.Batch(v.spinner.Tick, resolve)
}

// refresh re-renders the transcript and scrolls to the newest turn.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if v.session == nil {
		return ""
	}
	turns := v.session.Turns()
	if len(turns) == 0 {
		return v.styles.Muted.Render("Ask a question to search the knowledge base.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		blocks = append(blocks, v.renderTurn(turn, wrap))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderTurn(turn domain.ChatTurn, wrap lipgloss.Style) string {
	stamp := v.styles.Muted.Render(turn.Timestamp.Local().Format("15:04"))

	if turn.Role == domain.RoleUser {
		return v.styles.UserTurn.Render("You") + " " + stamp + "\n" + wrap.Render(turn.Content)
	}

	if turn.IsError {
		return v.styles.Error.Render("Assistant") + " " + stamp + "\n" +
			v.styles.Error.Render(wrap.Render(turn.Content))
	}

	var b strings.Builder
	b.WriteString(v.styles.AssistantTurn.Render("Assistant") + " " + stamp + "\n")
	b.WriteString(wrap.Render(turn.Content))

	if len(turn.RetrievedTexts) > 0 {
		b.WriteString("\n" + v.styles.Subtitle.Render("Sources"))
		for i, rt := range turn.RetrievedTexts {
			label := rt.Source
			if label == "" {
				label = fmt.Sprintf("passage %d", i+1)
			}
			b.WriteString("\n" + v.styles.Muted.Render(
				fmt.Sprintf("  %d. %s (%s) %s", i+1, label, rt.Relevance(), excerpt(rt.Text, v.width-30))))
		}
	}
	if turn.Metrics != nil {
		b.WriteString("\n" + v.styles.Muted.Render(fmt.Sprintf("Answered in %.2fs (retrieval %.2fs, generation %.2fs)",
			turn.Metrics.TotalTime, turn.Metrics.RetrievalTime, turn.Metrics.GenerationTime)))
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Chat"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")

	if v.InFlight() {
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n")
	}
	b.WriteString(v.prompt.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] send  [ctrl+l] clear  [pgup/pgdown] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	// title, input, help and spinner rows
	v.viewport.Height = max(height-10, 3)
	v.prompt.SetWidth(width)
	v.refresh()
}

// Session returns the open session, or nil when the view is not active.
func (v *View) Session() driving.ChatSession {
	return v.session
}

// InFlight reports whether a question is awaiting its answer.
func (v *View) InFlight() bool {
	return v.session != nil && v.session.InFlight()
}

// Input returns the current input text.
func (v *View) Input() string {
	return v.prompt.Value()
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n < 20 {
		n = 20
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
