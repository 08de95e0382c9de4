// Package cli implements the kbadmin command line using cobra.
package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Options are the persistent flags that shape how services are built.
type Options struct {
	ConfigDir  string
	BaseURL    string
	NoFallback bool
	Ephemeral  bool
	Verbose    bool
}

// Services is everything the commands need.
type Services struct {
	Health    driving.HealthService
	Files     driving.FileService
	Knowledge driving.KnowledgeService
	Tasks     driving.TaskService
	History   driving.HistoryService
	Settings  driving.SettingsService

	// NewChat starts a chat session. A non-positive limit uses the configured one.
	NewChat func(limit int) driving.ChatSession

	// NewMonitor creates a task monitor. A non-positive interval uses the configured one.
	NewMonitor func(interval time.Duration) driving.TaskMonitor

	// BaseURL is the effective backend address, for display.
	BaseURL string

	// LogFile is where the TUI writes logs.
	LogFile string

	// Close releases resources such as the history database.
	Close func() error
}

// Bootstrapper builds services once flags are parsed.
type Bootstrapper func(ctx context.Context, opts Options) (*Services, error)

var (
	opts      Options
	bootstrap Bootstrapper
	services  *Services
)

// Service handles used by commands.
var (
	healthService    driving.HealthService
	fileService      driving.FileService
	knowledgeService driving.KnowledgeService
	taskService      driving.TaskService
	historyService   driving.HistoryService
	settingsService  driving.SettingsService
	newChat          func(limit int) driving.ChatSession
	newMonitor       func(interval time.Duration) driving.TaskMonitor
)

var rootCmd = &cobra.Command{
	Use:   "kbadmin",
	Short: "Administer a RAG knowledge base",
	Long: `kbadmin manages the files, documents and ingestion tasks of a
retrieval-augmented generation backend, and lets you question it.

When the backend cannot be reached, read commands show sample data and
write commands report a simulated result. Use --no-fallback to get an
error instead.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.kbadmin)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "backend base URL (overrides config)")
	flags.BoolVar(&opts.NoFallback, "no-fallback", false, "fail instead of showing sample data when the backend is unreachable")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep configuration and history in memory only")
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(b Bootstrapper) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrapper.
func SetServices(s *Services) {
	services = s
	if s == nil {
		healthService, fileService, knowledgeService, taskService = nil, nil, nil, nil
		historyService, settingsService, newChat, newMonitor = nil, nil, nil, nil
		return
	}
	healthService = s.Health
	fileService = s.Files
	knowledgeService = s.Knowledge
	taskService = s.Tasks
	historyService = s.History
	settingsService = s.Settings
	newChat = s.NewChat
	newMonitor = s.NewMonitor
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.Execute()
	if services != nil && services.Close != nil {
		if cerr := services.Close(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
	}
	return err
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if bootstrap == nil {
		return nil
	}

	built, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if built == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(built)
	return nil
}
