package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	documents []domain.DocumentRecord
	simulated bool
	err       error
}

func (m *mockKnowledgeService) List(_ context.Context) (domain.Result[[]domain.DocumentRecord], error) {
	return domain.Result[[]domain.DocumentRecord]{Value: m.documents, Simulated: m.simulated}, m.err
}

func (m *mockKnowledgeService) Delete(_ context.Context, _ []string) (domain.Result[domain.DeletionReport], error) {
	return domain.Result[domain.DeletionReport]{}, m.err
}

func (m *mockKnowledgeService) Stats(docs []domain.DocumentRecord) domain.KnowledgeStats {
	return domain.ComputeKnowledgeStats(docs)
}

// mockFileService is a mock implementation of driving.FileService.
type mockFileService struct {
	files []domain.FileRecord
	err   error
}

func (m *mockFileService) List(_ context.Context) (domain.Result[[]domain.FileRecord], error) {
	return domain.Live(m.files), m.err
}

func (m *mockFileService) Upload(_ context.Context, _ string, _ io.Reader) (domain.Result[domain.Ack], error) {
	return domain.Result[domain.Ack]{}, m.err
}

func (m *mockFileService) UploadPath(_ context.Context, _ string) (domain.Result[domain.Ack], error) {
	return domain.Result[domain.Ack]{}, m.err
}

func (m *mockFileService) Delete(_ context.Context, _ string) (domain.Result[domain.Ack], error) {
	return domain.Result[domain.Ack]{}, m.err
}

func (m *mockFileService) AddToKnowledgeBase(_ context.Context, _ []string) (domain.Result[domain.IngestAck], error) {
	return domain.Result[domain.IngestAck]{}, m.err
}

func (m *mockFileService) WatchAndUpload(_ context.Context, _ string, _ func(driving.UploadEvent)) error {
	return m.err
}

// mockTaskService is a mock implementation of driving.TaskService.
type mockTaskService struct {
	tasks     []domain.TaskRecord
	simulated bool
	err       error
}

func (m *mockTaskService) Recent(_ context.Context) (domain.Result[[]domain.TaskRecord], error) {
	return domain.Result[[]domain.TaskRecord]{Value: m.tasks, Simulated: m.simulated}, m.err
}

func (m *mockTaskService) Counts(tasks []domain.TaskRecord) []domain.StatusCount {
	return domain.CountByStatus(tasks)
}

// mockChatSession is a mock implementation of driving.ChatSession that
// answers every question with turn.
type mockChatSession struct {
	turn     domain.ChatTurn
	err      error
	asked    []string
	closed   bool
	gotLimit int
}

func (m *mockChatSession) ID() string { return "mcp-session" }

func (m *mockChatSession) Ask(string) (driving.PendingQuery, error) {
	return nil, domain.ErrQueryInFlight
}

func (m *mockChatSession) Submit(_ context.Context, question string) (domain.ChatTurn, error) {
	m.asked = append(m.asked, question)
	return m.turn, m.err
}

func (m *mockChatSession) Clear() {}

func (m *mockChatSession) Close() { m.closed = true }

func (m *mockChatSession) Turns() []domain.ChatTurn { return nil }

func (m *mockChatSession) InFlight() bool { return false }

// chatFactory returns a NewChat port that hands out session and records the limit.
func chatFactory(session *mockChatSession) func(int) driving.ChatSession {
	return func(limit int) driving.ChatSession {
		session.gotLimit = limit
		return session
	}
}

func testPorts() *Ports {
	return &Ports{
		Knowledge: &mockKnowledgeService{},
		NewChat:   chatFactory(&mockChatSession{}),
	}
}
