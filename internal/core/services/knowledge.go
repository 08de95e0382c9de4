package services

import (
	"context"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ensure services implement the interfaces.
var (
	_ driving.KnowledgeService = (*KnowledgeService)(nil)
	_ driving.HealthService    = (*HealthService)(nil)
)

// KnowledgeService manages ingested documents.
type KnowledgeService struct {
	backend driven.Backend
}

// NewKnowledgeService creates a new knowledge service.
func NewKnowledgeService(backend driven.Backend) *KnowledgeService {
	return &KnowledgeService{backend: backend}
}

// List returns the knowledge base documents.
func (s *KnowledgeService) List(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error) {
	return s.backend.ListDocuments(ctx)
}

// Delete removes the documents with the given original paths.
func (s *KnowledgeService) Delete(
	ctx context.Context, paths []string,
) (domain.Result[domain.DeletionReport], error) {
	if len(paths) == 0 {
		return domain.Result[domain.DeletionReport]{}, domain.ErrNoSelection
	}
	return s.backend.DeleteDocuments(ctx, paths)
}

// Stats summarises a document list.
func (s *KnowledgeService) Stats(docs []domain.DocumentRecord) domain.KnowledgeStats {
	return domain.ComputeKnowledgeStats(docs)
}

// HealthService checks backend availability.
type HealthService struct {
	backend driven.Backend
}

// NewHealthService creates a new health service.
func NewHealthService(backend driven.Backend) *HealthService {
	return &HealthService{backend: backend}
}

// Check calls the backend health endpoint.
func (s *HealthService) Check(ctx context.Context) (domain.Result[domain.Health], error) {
	return s.backend.Health(ctx)
}
