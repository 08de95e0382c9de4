package status

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, ModeUnknown, bar.Mode())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestBar_NotifyReturnsExpiry(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.Notify(messages.LevelSuccess, "Uploaded report.pdf")

	require.NotNil(t, cmd)
	assert.Equal(t, "Uploaded report.pdf", bar.Message())
	assert.Equal(t, messages.LevelSuccess, bar.Level())
	assert.Equal(t, NotificationTTL, bar.ttl)
}

func TestBar_ExpiryClearsMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.ttl = 0

	cmd := bar.Notify(messages.LevelInfo, "hello")
	msg := cmd()
	expired, ok := msg.(messages.NotificationExpired)
	require.True(t, ok)

	bar, _ = bar.Update(expired)

	assert.Empty(t, bar.Message())
}

func TestBar_StaleExpiryKeepsNewerMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.ttl = 0

	first := bar.Notify(messages.LevelInfo, "first")
	_ = bar.Notify(messages.LevelError, "second")

	bar, _ = bar.Update(first())

	assert.Equal(t, "second", bar.Message())
	assert.Equal(t, messages.LevelError, bar.Level())
}

func TestBar_UpdateNotify(t *testing.T) {
	bar := NewBar(nil, nil)

	bar, cmd := bar.Update(messages.Notify{Level: messages.LevelWarning, Text: "using simulated data"})

	assert.NotNil(t, cmd)
	assert.Equal(t, "using simulated data", bar.Message())
	assert.Equal(t, messages.LevelWarning, bar.Level())
}

func TestBar_UpdateBackendMode(t *testing.T) {
	bar := NewBar(nil, nil)

	bar, _ = bar.Update(messages.BackendMode{Simulated: true})
	assert.Equal(t, ModeSimulated, bar.Mode())

	bar, _ = bar.Update(messages.BackendMode{Simulated: false})
	assert.Equal(t, ModeLive, bar.Mode())
}

func TestBar_UpdateIgnoresKeys(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Bar)
		expect []string
	}{
		{
			name:   "connecting",
			setup:  func(*Bar) {},
			expect: []string{"connecting", "esc: back"},
		},
		{
			name:   "live",
			setup:  func(b *Bar) { b.SetSimulated(false) },
			expect: []string{"live"},
		},
		{
			name:   "simulated",
			setup:  func(b *Bar) { b.SetSimulated(true) },
			expect: []string{"simulated"},
		},
		{
			name: "error notification",
			setup: func(b *Bar) {
				_ = b.Notify(messages.LevelError, errors.New("quota exceeded").Error())
			},
			expect: []string{"Error: quota exceeded"},
		},
		{
			name: "custom bindings",
			setup: func(b *Bar) {
				b.SetBindings(keymap.DefaultKeyMap().TasksHelp())
			},
			expect: []string{"p: pause/resume", "r: reload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()

			for _, e := range tt.expect {
				assert.Contains(t, view, e)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	_ = bar.Notify(messages.LevelInfo, "x")

	bar.Clear()

	assert.Empty(t, bar.Message())
}
