package driving

import (
	"context"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// KnowledgeService manages documents in the knowledge base.
type KnowledgeService interface {
	// List returns the knowledge base documents.
	List(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error)

	// Delete removes the documents with the given original paths.
	Delete(ctx context.Context, paths []string) (domain.Result[domain.DeletionReport], error)

	// Stats summarises a document list.
	Stats(docs []domain.DocumentRecord) domain.KnowledgeStats
}

// HealthService reports backend availability.
type HealthService interface {
	// Check calls the backend health endpoint.
	Check(ctx context.Context) (domain.Result[domain.Health], error)
}
