package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

func TestHistoryList(t *testing.T) {
	ts := setupTestServices(t)
	at := time.Date(2024, 6, 2, 14, 5, 0, 0, time.Local)
	ts.history.sessions = []domain.ChatSessionSummary{
		{ID: "s-1", Turns: 4, StartedAt: at, LastAt: at, FirstQuestion: "What is the refund policy for annual plans?"},
	}

	out, _, err := execute(t, "", "history", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "s-1  2024-06-02 14:05   4 turns  What is the refund policy")
}

func TestHistoryList_Empty(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "", "history", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No chat history.")
}

func TestHistoryShow(t *testing.T) {
	ts := setupTestServices(t)
	at := time.Date(2024, 6, 2, 14, 5, 9, 0, time.Local)
	ts.history.turns["s-1"] = []domain.ChatTurn{
		{ID: "1", Role: domain.RoleUser, Content: "hello?", Timestamp: at},
		{ID: "2", Role: domain.RoleAssistant, Content: domain.ChatErrorMessage, IsError: true, Timestamp: at},
	}

	out, _, err := execute(t, "", "history", "show", "s-1")

	require.NoError(t, err)
	assert.Contains(t, out, "[14:05:09] You:\nhello?")
	assert.Contains(t, out, "Assistant (error):")
}

func TestHistoryDelete(t *testing.T) {
	ts := setupTestServices(t)

	out, _, err := execute(t, "", "history", "delete", "s-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ts.history.deleted)
	assert.Contains(t, out, "Deleted session s-1")
}

func TestHistory_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.history.err = errors.New("database is locked")

	_, _, err := execute(t, "", "history", "list")

	assert.EqualError(t, err, "database is locked")
}

func TestHistory_NotConfigured(t *testing.T) {
	setupTestServices(t)
	historyService = nil

	_, _, err := execute(t, "", "history", "list")

	assert.EqualError(t, err, "history service not configured")
}
