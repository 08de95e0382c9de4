package mcp

import (
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Knowledge lists knowledge base documents.
	Knowledge driving.KnowledgeService

	// NewChat opens a session for one query. A non-positive limit uses the configured one.
	NewChat func(limit int) driving.ChatSession

	// Files lists uploaded files. Optional.
	Files driving.FileService

	// Tasks reads ingestion tasks. Optional.
	Tasks driving.TaskService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Knowledge == nil {
		return ErrMissingKnowledgeService
	}
	if p.NewChat == nil {
		return ErrMissingChatFactory
	}
	return nil
}
