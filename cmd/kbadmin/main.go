// Command kbadmin administers a retrieval-augmented generation backend:
// its uploaded files, indexed documents, ingestion tasks and query endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/kbadmin/internal/adapters/driven/backend"
	"github.com/custodia-labs/kbadmin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbadmin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbadmin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbadmin/internal/adapters/driven/watch"
	"github.com/custodia-labs/kbadmin/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/core/services"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

func main() {
	if err := file.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap is the composition root: it wires driven adapters into core
// services according to settings and flags.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" && !opts.Ephemeral {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	var base driven.ConfigStore
	if opts.Ephemeral {
		base = memory.NewConfigStore()
	} else {
		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		base = store
	}

	settingsService := services.NewSettingsService(file.NewEnvStore(base))
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if opts.BaseURL != "" {
		settings.Backend.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.NoFallback {
		settings.Backend.FallbackEnabled = false
	}
	logger.Debug("backend %s (fallback %t)", settings.Backend.BaseURL, settings.Backend.FallbackEnabled)

	client := backend.NewClient(backend.ConfigFromSettings(settings.Backend))

	var (
		transcripts driven.TranscriptStore
		closeFn     = func() error { return nil }
	)
	if opts.Ephemeral {
		transcripts = memory.NewTranscriptStore()
	} else {
		store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			logger.Warn("chat history unavailable: %v", err)
		} else {
			transcripts = store.TranscriptStore()
			closeFn = store.Close
		}
	}

	// Only persist new turns when history is enabled; stored history stays readable.
	var chatStore driven.TranscriptStore
	if settings.Chat.History {
		chatStore = transcripts
	}

	taskService := services.NewTaskService(client, settings.Tasks.MaxTasks)
	chatLimit := settings.Chat.Limit
	pollInterval := settings.Tasks.PollInterval

	svc := &cli.Services{
		Health:    services.NewHealthService(client),
		Files:     services.NewFileService(client, watch.New(0)),
		Knowledge: services.NewKnowledgeService(client),
		Tasks:     taskService,
		Settings:  settingsService,
		NewChat: func(limit int) driving.ChatSession {
			if limit <= 0 {
				limit = chatLimit
			}
			return services.NewChatSession(client, limit, chatStore)
		},
		NewMonitor: func(interval time.Duration) driving.TaskMonitor {
			if interval <= 0 {
				interval = pollInterval
			}
			return services.NewTaskPoller(taskService, interval)
		},
		BaseURL: settings.Backend.BaseURL,
		LogFile: settings.Log.File,
		Close:   closeFn,
	}
	if transcripts != nil {
		svc.History = services.NewHistoryService(transcripts)
	}
	if svc.LogFile == "" && configDir != "" {
		svc.LogFile = filepath.Join(configDir, "kbadmin.log")
	}
	return svc, nil
}
