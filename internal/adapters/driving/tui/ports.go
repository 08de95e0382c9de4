// Package tui provides an interactive terminal user interface for kbadmin.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Files manages raw uploaded files.
	Files driving.FileService

	// Knowledge manages indexed documents.
	Knowledge driving.KnowledgeService

	// Health reports backend availability at startup. Optional.
	Health driving.HealthService

	// NewChat opens a fresh chat session each time the chat view is entered.
	NewChat func() driving.ChatSession

	// NewMonitor creates a task monitor each time the tasks view is entered.
	NewMonitor func() driving.TaskMonitor
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	files driving.FileService,
	knowledge driving.KnowledgeService,
	newChat func() driving.ChatSession,
	newMonitor func() driving.TaskMonitor,
) *Ports {
	return &Ports{
		Files:      files,
		Knowledge:  knowledge,
		NewChat:    newChat,
		NewMonitor: newMonitor,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Files == nil {
		return ErrMissingFileService
	}
	if p.Knowledge == nil {
		return ErrMissingKnowledgeService
	}
	if p.NewChat == nil {
		return ErrMissingChatFactory
	}
	if p.NewMonitor == nil {
		return ErrMissingMonitorFactory
	}
	return nil
}
