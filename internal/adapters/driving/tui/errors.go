package tui

import "errors"

// ErrMissingFileService is returned when the file service is not provided.
var ErrMissingFileService = errors.New("tui: file service is required")

// ErrMissingKnowledgeService is returned when the knowledge service is not provided.
var ErrMissingKnowledgeService = errors.New("tui: knowledge service is required")

// ErrMissingChatFactory is returned when no chat session factory is provided.
var ErrMissingChatFactory = errors.New("tui: chat session factory is required")

// ErrMissingMonitorFactory is returned when no task monitor factory is provided.
var ErrMissingMonitorFactory = errors.New("tui: task monitor factory is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
