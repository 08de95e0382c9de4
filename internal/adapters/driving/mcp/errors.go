// Package mcp provides an MCP (Model Context Protocol) server adapter for kbadmin.
// It lets AI assistants question the knowledge base and inspect its documents,
// files and ingestion tasks.
package mcp

import "errors"

// ErrMissingKnowledgeService is returned when the knowledge service is not provided.
var ErrMissingKnowledgeService = errors.New("mcp: knowledge service is required")

// ErrMissingChatFactory is returned when no chat session factory is provided.
var ErrMissingChatFactory = errors.New("mcp: chat session factory is required")
