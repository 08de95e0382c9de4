package driving

import (
	"context"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// ChatSession is a sequential question and answer exchange.
// At most one query is in flight at a time.
type ChatSession interface {
	// ID identifies the session in transcript storage.
	ID() string

	// Ask appends a user turn and returns the query to resolve.
	// Returns domain.ErrEmptyQuestion for blank input and
	// domain.ErrQueryInFlight while another query is outstanding;
	// nothing is appended in either case.
	Ask(question string) (PendingQuery, error)

	// Submit is Ask followed by Resolve.
	Submit(ctx context.Context, question string) (domain.ChatTurn, error)

	// Clear discards all turns. An in-flight query is not cancelled.
	Clear()

	// Close marks the session's owner as gone. Later results are dropped.
	Close()

	// Turns returns a copy of the turn sequence.
	Turns() []domain.ChatTurn

	// InFlight reports whether a query is outstanding.
	InFlight() bool
}

// PendingQuery is a question whose user turn has been appended.
type PendingQuery interface {
	// Question returns the submitted text.
	Question() string

	// Resolve performs the query and appends exactly one assistant turn,
	// which it also returns.
	Resolve(ctx context.Context) domain.ChatTurn
}

// HistoryService reads stored chat transcripts.
type HistoryService interface {
	// Sessions lists stored sessions, most recent first.
	Sessions(ctx context.Context) ([]domain.ChatSessionSummary, error)

	// Transcript returns a session's turns.
	Transcript(ctx context.Context, sessionID string) ([]domain.ChatTurn, error)

	// Delete removes a stored session.
	Delete(ctx context.Context, sessionID string) error
}
