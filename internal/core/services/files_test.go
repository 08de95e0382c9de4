package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

func TestFileService_List(t *testing.T) {
	backend := &mockBackend{
		files: domain.Simulated([]domain.FileRecord{{Name: "notes.txt", Path: "uploads/notes.txt"}}),
	}
	svc := NewFileService(backend, nil)

	res, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Simulated)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "notes.txt", res.Value[0].Name)
}

func TestFileService_Upload(t *testing.T) {
	backend := &mockBackend{ack: domain.Live(domain.Ack{Message: "ok"})}
	svc := NewFileService(backend, nil)

	res, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("hello"))

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value.Message)
	assert.Equal(t, "a.txt", backend.uploadedName)
	assert.Equal(t, "hello", backend.uploadedContent)
}

func TestFileService_Upload_RequiresName(t *testing.T) {
	svc := NewFileService(&mockBackend{}, nil)

	_, err := svc.Upload(context.Background(), "", strings.NewReader("x"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileService_UploadPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report final.pdf")
	require.NoError(t, os.WriteFile(path, []byte("pdf bytes"), 0600))

	backend := &mockBackend{ack: domain.Live(domain.Ack{Message: "uploaded"})}
	svc := NewFileService(backend, nil)

	res, err := svc.UploadPath(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "uploaded", res.Value.Message)
	assert.Equal(t, "report final.pdf", backend.uploadedName)
	assert.Equal(t, "pdf bytes", backend.uploadedContent)
}

func TestFileService_UploadPath_Errors(t *testing.T) {
	svc := NewFileService(&mockBackend{}, nil)

	_, err := svc.UploadPath(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = svc.UploadPath(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileService_Delete_UsesBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"uploads/report.pdf", "report.pdf"},
		{"/data/uploads/a b.txt", "a b.txt"},
		{"plain.txt", "plain.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			backend := &mockBackend{ack: domain.Live(domain.Ack{Message: "Deleted"})}
			svc := NewFileService(backend, nil)

			_, err := svc.Delete(context.Background(), tt.path)

			require.NoError(t, err)
			assert.Equal(t, tt.want, backend.deletedName)
		})
	}
}

func TestFileService_Delete_EmptyPath(t *testing.T) {
	_, err := NewFileService(&mockBackend{}, nil).Delete(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileService_Delete_ServerFailurePassesThrough(t *testing.T) {
	backend := &mockBackend{err: serverErr("File not found")}
	svc := NewFileService(backend, nil)

	_, err := svc.Delete(context.Background(), "uploads/x.pdf")

	require.Error(t, err)
	assert.True(t, domain.IsServerFailure(err))
	assert.Equal(t, "File not found", domain.ServerMessage(err))
}

func TestFileService_AddToKnowledgeBase(t *testing.T) {
	backend := &mockBackend{ingest: domain.Live(domain.IngestAck{TaskID: "task_1"})}
	svc := NewFileService(backend, nil)

	res, err := svc.AddToKnowledgeBase(context.Background(), []string{"uploads/a.pdf", "uploads/b.pdf"})

	require.NoError(t, err)
	assert.Equal(t, "task_1", res.Value.TaskID)
	assert.Equal(t, []string{"uploads/a.pdf", "uploads/b.pdf"}, backend.addedPaths)

	_, err = svc.AddToKnowledgeBase(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestFileService_WatchAndUpload(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("content"), 0600))
	missing := filepath.Join(dir, "vanished.txt")

	backend := &mockBackend{ack: domain.Live(domain.Ack{Message: "ok"})}
	watcher := &mockWatcher{paths: []string{good, missing}}
	svc := NewFileService(backend, watcher)

	var events []driving.UploadEvent
	err := svc.WatchAndUpload(context.Background(), dir, func(ev driving.UploadEvent) {
		events = append(events, ev)
	})

	require.NoError(t, err)
	assert.Equal(t, dir, watcher.dir)
	require.Len(t, events, 2)
	assert.Equal(t, good, events[0].Path)
	assert.NoError(t, events[0].Err)
	assert.Equal(t, "ok", events[0].Result.Value.Message)
	assert.Equal(t, missing, events[1].Path)
	assert.Error(t, events[1].Err)
}

func TestFileService_WatchAndUpload_NoWatcher(t *testing.T) {
	err := NewFileService(&mockBackend{}, nil).WatchAndUpload(context.Background(), t.TempDir(), nil)
	assert.Error(t, err)
}

func TestFileService_WatchAndUpload_WatchError(t *testing.T) {
	watchErr := errors.New("too many open files")
	svc := NewFileService(&mockBackend{}, &mockWatcher{err: watchErr})

	err := svc.WatchAndUpload(context.Background(), t.TempDir(), nil)

	assert.ErrorIs(t, err, watchErr)
}
