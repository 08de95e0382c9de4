package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// FileService manages raw files in the backend upload area.
type FileService interface {
	// List returns the uploaded files.
	List(ctx context.Context) (domain.Result[[]domain.FileRecord], error)

	// Upload sends content under the given file name.
	Upload(ctx context.Context, name string, content io.Reader) (domain.Result[domain.Ack], error)

	// UploadPath reads a local file and uploads it under its base name.
	UploadPath(ctx context.Context, path string) (domain.Result[domain.Ack], error)

	// Delete removes the file at the given backend path.
	Delete(ctx context.Context, path string) (domain.Result[domain.Ack], error)

	// AddToKnowledgeBase queues the given file paths for ingestion.
	AddToKnowledgeBase(ctx context.Context, paths []string) (domain.Result[domain.IngestAck], error)

	// WatchAndUpload uploads every file written to dir until ctx is cancelled.
	// onUpload is called after each attempt.
	WatchAndUpload(ctx context.Context, dir string, onUpload func(UploadEvent)) error
}

// UploadEvent reports one automatic upload attempt.
type UploadEvent struct {
	// Path is the local file that was uploaded.
	Path string

	// Result is the backend response when Err is nil.
	Result domain.Result[domain.Ack]

	// Err is set when the upload failed.
	Err error
}
