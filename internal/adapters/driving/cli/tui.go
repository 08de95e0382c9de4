package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/adapters/driving/tui"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for kbadmin.

The TUI lets you upload files and add them to the knowledge base, delete
documents, watch ingestion tasks and ask questions.

Controls:
  ↑/k, ↓/j - Navigate
  space    - Toggle selection
  Enter    - Select / Send
  Esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts adapts the command services to the TUI ports.
func tuiPorts() *tui.Ports {
	ports := &tui.Ports{
		Files:     fileService,
		Knowledge: knowledgeService,
		Health:    healthService,
	}
	if newChat != nil {
		ports.NewChat = func() driving.ChatSession { return newChat(0) }
	}
	if newMonitor != nil {
		ports.NewMonitor = func() driving.TaskMonitor { return newMonitor(0) }
	}
	return ports
}

// tuiLogFile returns where log output goes while the TUI owns the terminal.
func tuiLogFile() string {
	if services != nil && services.LogFile != "" {
		return services.LogFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "kbadmin.log")
	}
	return filepath.Join(home, ".kbadmin", "kbadmin.log")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	closer, err := logger.SetFile(tuiLogFile())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = closer.Close() }()

	app.WithContext(cmd.Context())
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
