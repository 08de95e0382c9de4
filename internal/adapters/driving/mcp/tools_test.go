package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		session := &mockChatSession{turn: domain.ChatTurn{
			Role:    domain.RoleAssistant,
			Content: "Refunds take 14 days.",
			Metrics: &domain.QueryMetrics{TotalTime: 1.2},
			RetrievedTexts: []domain.RetrievedText{
				{Text: "Refunds are processed within 14 days.", Distance: 0.87, Source: "policy.pdf"},
			},
		}}
		ports := testPorts()
		ports.NewChat = chatFactory(session)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Question: "  refund time?  ", Limit: 5})

		require.NoError(t, err)
		assert.Equal(t, "Refunds take 14 days.", output.Answer)
		assert.False(t, output.IsError)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "policy.pdf", output.Sources[0].Source)
		assert.Equal(t, "87.0%", output.Sources[0].Relevance)
		assert.InDelta(t, 1.2, output.Metrics.TotalTime, 1e-9)
		assert.Equal(t, []string{"refund time?"}, session.asked)
		assert.Equal(t, 5, session.gotLimit)
		assert.True(t, session.closed)
	})

	t.Run("error turn is reported in output", func(t *testing.T) {
		session := &mockChatSession{turn: domain.ChatTurn{
			Role: domain.RoleAssistant, Content: domain.ChatErrorMessage, IsError: true,
		}}
		ports := testPorts()
		ports.NewChat = chatFactory(session)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Question: "why?"})

		require.NoError(t, err)
		assert.True(t, output.IsError)
		assert.Equal(t, domain.ChatErrorMessage, output.Answer)
		assert.Empty(t, output.Sources)
	})

	t.Run("blank question is rejected", func(t *testing.T) {
		session := &mockChatSession{}
		ports := testPorts()
		ports.NewChat = chatFactory(session)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Question: "   "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
		assert.Empty(t, session.asked)
	})

	t.Run("session error is returned", func(t *testing.T) {
		session := &mockChatSession{err: domain.ErrSessionClosed}
		ports := testPorts()
		ports.NewChat = chatFactory(session)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrSessionClosed)
		assert.True(t, session.closed)
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents and stats", func(t *testing.T) {
		ports := testPorts()
		ports.Knowledge = &mockKnowledgeService{
			simulated: true,
			documents: []domain.DocumentRecord{
				{OriginalPath: "uploads/a.pdf", FileName: "a.pdf", Status: domain.StatusCompleted, ChunksCount: 4},
				{OriginalPath: "uploads/b.pdf", FileName: "b.pdf", Status: domain.StatusFailed},
			},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Len(t, output.Documents, 2)
		assert.Equal(t, 2, output.Stats.Documents)
		assert.Equal(t, 4, output.Stats.Chunks)
		assert.Equal(t, 1, output.Stats.Failed)
		assert.True(t, output.Simulated)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ports := testPorts()
		ports.Knowledge = &mockKnowledgeService{err: &domain.ServerError{StatusCode: 500, Message: "db down"}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListInput{})

		assert.True(t, domain.IsServerFailure(err))
	})
}

func TestServer_handleListFiles(t *testing.T) {
	ports := testPorts()
	ports.Files = &mockFileService{files: []domain.FileRecord{{Name: "a.pdf", Path: "uploads/a.pdf"}}}
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleListFiles(context.Background(), nil, ListInput{})

	require.NoError(t, err)
	require.Len(t, output.Files, 1)
	assert.Equal(t, "a.pdf", output.Files[0].Name)
	assert.False(t, output.Simulated)
}

func TestServer_handleRecentTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tasks with counts", func(t *testing.T) {
		ports := testPorts()
		ports.Tasks = &mockTaskService{tasks: []domain.TaskRecord{
			{TaskID: "t1", Status: domain.StatusProcessing, Progress: 40},
			{TaskID: "t2", Status: domain.StatusCompleted, Progress: 100},
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleRecentTasks(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Len(t, output.Tasks, 2)
		assert.Equal(t, 1, output.Active)
		assert.NotEmpty(t, output.Counts)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ports := testPorts()
		ports.Tasks = &mockTaskService{err: errors.New("boom")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleRecentTasks(ctx, nil, ListInput{})

		assert.EqualError(t, err, "boom")
	})
}
