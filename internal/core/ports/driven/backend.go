package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// Backend is the remote ingestion and question-answering service.
//
// Every method returns one of three outcomes:
//   - a Result with a nil error when a response was received and parsed
//     (Result.Simulated is set when fallback data stood in for an
//     unreachable backend),
//   - a *domain.ServerError when the backend rejected the request,
//   - a *domain.TransportError when it could not be reached and fallback
//     substitution is disabled.
//
// Implementations hold no mutable state and are safe for concurrent use.
type Backend interface {
	// Health checks that the backend is up.
	Health(ctx context.Context) (domain.Result[domain.Health], error)

	// ListFiles returns the files in the upload area.
	ListFiles(ctx context.Context) (domain.Result[[]domain.FileRecord], error)

	// UploadFile uploads content under the given file name.
	UploadFile(ctx context.Context, name string, content io.Reader) (domain.Result[domain.Ack], error)

	// DeleteFile removes an uploaded file by name.
	// The name is percent-encoded into the request path.
	DeleteFile(ctx context.Context, name string) (domain.Result[domain.Ack], error)

	// ListDocuments returns the knowledge base documents.
	ListDocuments(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error)

	// AddDocuments queues uploaded files for ingestion.
	AddDocuments(ctx context.Context, paths []string) (domain.Result[domain.IngestAck], error)

	// DeleteDocuments removes documents from the knowledge base.
	DeleteDocuments(ctx context.Context, paths []string) (domain.Result[domain.DeletionReport], error)

	// ListTasks returns recent background tasks.
	ListTasks(ctx context.Context) (domain.Result[[]domain.TaskRecord], error)

	// Query asks a question. A limit of zero or less uses domain.DefaultQueryLimit.
	Query(ctx context.Context, question string, limit int) (domain.Result[domain.Answer], error)
}
