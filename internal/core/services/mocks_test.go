package services

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
)

// mockBackend implements driven.Backend for testing.
type mockBackend struct {
	mu sync.Mutex

	health    domain.Result[domain.Health]
	files     domain.Result[[]domain.FileRecord]
	docs      domain.Result[[]domain.DocumentRecord]
	tasks     domain.Result[[]domain.TaskRecord]
	ack       domain.Result[domain.Ack]
	ingest    domain.Result[domain.IngestAck]
	deletion  domain.Result[domain.DeletionReport]
	answer    domain.Result[domain.Answer]
	err       error
	queryHook func(ctx context.Context, question string) (domain.Result[domain.Answer], error)

	uploadedName    string
	uploadedContent string
	deletedName     string
	addedPaths      []string
	deletedPaths    []string
	queries         []string
	limits          []int
	taskCalls       int
}

func (m *mockBackend) Health(_ context.Context) (domain.Result[domain.Health], error) {
	return m.health, m.err
}

func (m *mockBackend) ListFiles(_ context.Context) (domain.Result[[]domain.FileRecord], error) {
	return m.files, m.err
}

func (m *mockBackend) UploadFile(_ context.Context, name string, content io.Reader) (domain.Result[domain.Ack], error) {
	data, _ := io.ReadAll(content)
	m.mu.Lock()
	m.uploadedName = name
	m.uploadedContent = string(data)
	m.mu.Unlock()
	return m.ack, m.err
}

func (m *mockBackend) DeleteFile(_ context.Context, name string) (domain.Result[domain.Ack], error) {
	m.mu.Lock()
	m.deletedName = name
	m.mu.Unlock()
	return m.ack, m.err
}

func (m *mockBackend) ListDocuments(_ context.Context) (domain.Result[[]domain.DocumentRecord], error) {
	return m.docs, m.err
}

func (m *mockBackend) AddDocuments(_ context.Context, paths []string) (domain.Result[domain.IngestAck], error) {
	m.mu.Lock()
	m.addedPaths = paths
	m.mu.Unlock()
	return m.ingest, m.err
}

func (m *mockBackend) DeleteDocuments(_ context.Context, paths []string) (domain.Result[domain.DeletionReport], error) {
	m.mu.Lock()
	m.deletedPaths = paths
	m.mu.Unlock()
	return m.deletion, m.err
}

func (m *mockBackend) ListTasks(_ context.Context) (domain.Result[[]domain.TaskRecord], error) {
	m.mu.Lock()
	m.taskCalls++
	m.mu.Unlock()
	return m.tasks, m.err
}

func (m *mockBackend) Query(ctx context.Context, question string, limit int) (domain.Result[domain.Answer], error) {
	m.mu.Lock()
	m.queries = append(m.queries, question)
	m.limits = append(m.limits, limit)
	hook := m.queryHook
	m.mu.Unlock()
	if hook != nil {
		return hook(ctx, question)
	}
	return m.answer, m.err
}

func (m *mockBackend) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockWatcher implements driven.DirWatcher by replaying a fixed list of paths.
type mockWatcher struct {
	paths []string
	err   error
	dir   string
}

func (m *mockWatcher) Watch(_ context.Context, dir string, onFile func(string)) error {
	m.dir = dir
	if m.err != nil {
		return m.err
	}
	for _, p := range m.paths {
		onFile(p)
	}
	return nil
}

// Ensure mocks implement interfaces.
var (
	_ driven.Backend    = (*mockBackend)(nil)
	_ driven.DirWatcher = (*mockWatcher)(nil)
)

func serverErr(msg string) error {
	return &domain.ServerError{StatusCode: 500, Message: msg}
}

func transportErr() error {
	return &domain.TransportError{Op: "GET /x", Cause: context.DeadlineExceeded}
}
