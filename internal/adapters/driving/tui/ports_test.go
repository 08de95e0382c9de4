package tui

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// MockFileService implements driving.FileService for testing.
type MockFileService struct {
	ListFunc func(ctx context.Context) (domain.Result[[]domain.FileRecord], error)
}

func (m *MockFileService) List(ctx context.Context) (domain.Result[[]domain.FileRecord], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return domain.Live([]domain.FileRecord{}), nil
}

func (m *MockFileService) Upload(context.Context, string, io.Reader) (domain.Result[domain.Ack], error) {
	return domain.Live(domain.Ack{Message: "ok"}), nil
}

func (m *MockFileService) UploadPath(context.Context, string) (domain.Result[domain.Ack], error) {
	return domain.Live(domain.Ack{Message: "ok"}), nil
}

func (m *MockFileService) Delete(context.Context, string) (domain.Result[domain.Ack], error) {
	return domain.Live(domain.Ack{Message: "ok"}), nil
}

func (m *MockFileService) AddToKnowledgeBase(context.Context, []string) (domain.Result[domain.IngestAck], error) {
	return domain.Live(domain.IngestAck{}), nil
}

func (m *MockFileService) WatchAndUpload(context.Context, string, func(driving.UploadEvent)) error {
	return nil
}

// MockKnowledgeService implements driving.KnowledgeService for testing.
type MockKnowledgeService struct {
	ListFunc func(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error)
}

func (m *MockKnowledgeService) List(ctx context.Context) (domain.Result[[]domain.DocumentRecord], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return domain.Live([]domain.DocumentRecord{}), nil
}

func (m *MockKnowledgeService) Delete(_ context.Context, paths []string) (domain.Result[domain.DeletionReport], error) {
	return domain.Live(domain.DeletionReport{Successful: len(paths)}), nil
}

func (m *MockKnowledgeService) Stats(docs []domain.DocumentRecord) domain.KnowledgeStats {
	return domain.ComputeKnowledgeStats(docs)
}

// MockHealthService implements driving.HealthService for testing.
type MockHealthService struct {
	Result domain.Result[domain.Health]
	Err    error
}

func (m *MockHealthService) Check(context.Context) (domain.Result[domain.Health], error) {
	return m.Result, m.Err
}

func validPorts() *Ports {
	return NewPorts(
		&MockFileService{},
		&MockKnowledgeService{},
		func() driving.ChatSession { return nil },
		func() driving.TaskMonitor { return nil },
	)
}

func TestNewPorts(t *testing.T) {
	ports := validPorts()

	require.NotNil(t, ports)
	assert.NotNil(t, ports.Files)
	assert.NotNil(t, ports.Knowledge)
	assert.Nil(t, ports.Health)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Ports)
		want   error
	}{
		{"missing files", func(p *Ports) { p.Files = nil }, ErrMissingFileService},
		{"missing knowledge", func(p *Ports) { p.Knowledge = nil }, ErrMissingKnowledgeService},
		{"missing chat factory", func(p *Ports) { p.NewChat = nil }, ErrMissingChatFactory},
		{"missing monitor factory", func(p *Ports) { p.NewMonitor = nil }, ErrMissingMonitorFactory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports := validPorts()
			tt.mutate(ports)
			assert.ErrorIs(t, ports.Validate(), tt.want)
		})
	}
}

func TestPorts_ValidateNil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}
