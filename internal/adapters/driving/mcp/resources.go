package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for kbadmin resources.
	uriScheme = "kbadmin://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Knowledge base documents with status and chunk counts",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{name}",
		Name:        "document",
		Description: "A single knowledge base document by file name",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	if s.ports.Tasks != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "tasks",
			Name:        "tasks",
			Description: "Recent ingestion tasks",
			MIMEType:    "application/json",
		}, s.handleTasksResource)
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource returns every knowledge base document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	res, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return jsonResource(req.Params.URI, res.Value)
}

// handleDocumentResource returns the document whose file name matches the URI.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractDocumentName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	res, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for _, doc := range res.Value {
		if doc.FileName == name || domain.BaseName(doc.OriginalPath) == name {
			return jsonResource(req.Params.URI, doc)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// handleTasksResource returns recent tasks.
func (s *Server) handleTasksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	res, err := s.ports.Tasks.Recent(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return jsonResource(req.Params.URI, res.Value)
}

// extractDocumentName extracts the name from a URI like kbadmin://documents/{name}.
// The name may be percent-encoded.
func extractDocumentName(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return name
}
