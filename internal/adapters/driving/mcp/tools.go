package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of passages to retrieve (default from settings)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer  string               `json:"answer"`
	IsError bool                 `json:"is_error,omitempty"`
	Sources []SourceOutput       `json:"sources,omitempty"`
	Metrics *domain.QueryMetrics `json:"metrics,omitempty"`
}

// SourceOutput is one retrieved passage supporting an answer.
type SourceOutput struct {
	Source    string  `json:"source,omitempty"`
	Text      string  `json:"text"`
	Distance  float64 `json:"distance"`
	Relevance string  `json:"relevance"`
}

// ListInput is the empty input schema for the listing tools.
type ListInput struct{}

// DocumentsOutput is the output schema for the list_documents tool.
type DocumentsOutput struct {
	Documents []domain.DocumentRecord `json:"documents"`
	Stats     domain.KnowledgeStats   `json:"stats"`
	Simulated bool                    `json:"simulated,omitempty"`
}

// FilesOutput is the output schema for the list_files tool.
type FilesOutput struct {
	Files     []domain.FileRecord `json:"files"`
	Simulated bool                `json:"simulated,omitempty"`
}

// TasksOutput is the output schema for the recent_tasks tool.
type TasksOutput struct {
	Tasks     []domain.TaskRecord  `json:"tasks"`
	Counts    []domain.StatusCount `json:"counts"`
	Active    int                  `json:"active"`
	Simulated bool                 `json:"simulated,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_knowledge_base",
		Description: "Answer a question using passages retrieved from the knowledge base",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List knowledge base documents with their indexing status",
	}, s.handleListDocuments)

	if s.ports.Files != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_files",
			Description: "List raw files uploaded but not necessarily indexed",
		}, s.handleListFiles)
	}

	if s.ports.Tasks != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "recent_tasks",
			Description: "Show recent ingestion tasks and their progress",
		}, s.handleRecentTasks)
	}
}

// handleQuery asks one question in a fresh session.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, QueryOutput{}, domain.ErrEmptyQuestion
	}

	session := s.ports.NewChat(input.Limit)
	defer session.Close()

	turn, err := session.Submit(ctx, question)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:  turn.Content,
		IsError: turn.IsError,
		Metrics: turn.Metrics,
	}
	for _, rt := range turn.RetrievedTexts {
		output.Sources = append(output.Sources, SourceOutput{
			Source:    rt.Source,
			Text:      rt.Text,
			Distance:  rt.Distance,
			Relevance: rt.Relevance(),
		})
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	res, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	return nil, DocumentsOutput{
		Documents: res.Value,
		Stats:     s.ports.Knowledge.Stats(res.Value),
		Simulated: res.Simulated,
	}, nil
}

func (s *Server) handleListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, FilesOutput, error) {
	res, err := s.ports.Files.List(ctx)
	if err != nil {
		return nil, FilesOutput{}, err
	}
	return nil, FilesOutput{Files: res.Value, Simulated: res.Simulated}, nil
}

func (s *Server) handleRecentTasks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, TasksOutput, error) {
	res, err := s.ports.Tasks.Recent(ctx)
	if err != nil {
		return nil, TasksOutput{}, err
	}
	return nil, TasksOutput{
		Tasks:     res.Value,
		Counts:    s.ports.Tasks.Counts(res.Value),
		Active:    domain.ActiveTasks(res.Value),
		Simulated: res.Simulated,
	}, nil
}
