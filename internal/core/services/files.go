package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// Ensure FileService implements the interface.
var _ driving.FileService = (*FileService)(nil)

// FileService manages raw uploaded files.
type FileService struct {
	backend driven.Backend
	watcher driven.DirWatcher
}

// NewFileService creates a new file service.
// The watcher is optional; WatchAndUpload fails without it.
func NewFileService(backend driven.Backend, watcher driven.DirWatcher) *FileService {
	return &FileService{
		backend: backend,
		watcher: watcher,
	}
}

// List returns the uploaded files.
func (s *FileService) List(ctx context.Context) (domain.Result[[]domain.FileRecord], error) {
	return s.backend.ListFiles(ctx)
}

// Upload sends content under the given file name.
func (s *FileService) Upload(
	ctx context.Context, name string, content io.Reader,
) (domain.Result[domain.Ack], error) {
	if name == "" {
		return domain.Result[domain.Ack]{}, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	return s.backend.UploadFile(ctx, name, content)
}

// UploadPath reads a local file and uploads it under its base name.
func (s *FileService) UploadPath(ctx context.Context, path string) (domain.Result[domain.Ack], error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Result[domain.Ack]{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Result[domain.Ack]{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Result[domain.Ack]{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	logger.Debug("uploading %s (%s)", path, domain.FormatSize(info.Size()))
	return s.Upload(ctx, filepath.Base(path), f)
}

// Delete removes the file at the given backend path.
// The backend addresses files by base name.
func (s *FileService) Delete(ctx context.Context, path string) (domain.Result[domain.Ack], error) {
	name := domain.BaseName(path)
	if name == "" {
		return domain.Result[domain.Ack]{}, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}
	return s.backend.DeleteFile(ctx, name)
}

// AddToKnowledgeBase queues the given file paths for ingestion.
func (s *FileService) AddToKnowledgeBase(
	ctx context.Context, paths []string,
) (domain.Result[domain.IngestAck], error) {
	if len(paths) == 0 {
		return domain.Result[domain.IngestAck]{}, domain.ErrNoSelection
	}
	return s.backend.AddDocuments(ctx, paths)
}

// WatchAndUpload uploads every file written to dir until ctx is cancelled.
func (s *FileService) WatchAndUpload(
	ctx context.Context, dir string, onUpload func(driving.UploadEvent),
) error {
	if s.watcher == nil {
		return fmt.Errorf("directory watching is not available")
	}

	return s.watcher.Watch(ctx, dir, func(path string) {
		res, err := s.UploadPath(ctx, path)
		if err != nil {
			logger.Warn("auto-upload of %s failed: %v", path, err)
		}
		if onUpload != nil {
			onUpload(driving.UploadEvent{Path: path, Result: res, Err: err})
		}
	})
}
