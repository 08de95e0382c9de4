package driven

import (
	"context"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// TranscriptStore persists chat turns grouped by session.
type TranscriptStore interface {
	// AppendTurn stores a turn at the end of a session's transcript.
	AppendTurn(ctx context.Context, sessionID string, turn domain.ChatTurn) error

	// GetTurns returns a session's turns in append order.
	// Returns domain.ErrNotFound if the session has no turns.
	GetTurns(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)

	// ListSessions returns a summary per session, most recent first.
	ListSessions(ctx context.Context) ([]domain.ChatSessionSummary, error)

	// DeleteSession removes a session's turns.
	DeleteSession(ctx context.Context, sessionID string) error
}
