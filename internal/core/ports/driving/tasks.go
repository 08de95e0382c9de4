package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
)

// TaskService reads background task state.
type TaskService interface {
	// Recent returns the most recent tasks, bounded by the configured maximum.
	Recent(ctx context.Context) (domain.Result[[]domain.TaskRecord], error)

	// Counts returns the number of tasks per status.
	Counts(tasks []domain.TaskRecord) []domain.StatusCount
}

// PollState is the state of a TaskMonitor.
type PollState int

// Poll states.
const (
	// PollActive fetches tasks on a fixed interval.
	PollActive PollState = iota

	// PollPaused has no timer running.
	PollPaused

	// PollStopped has been torn down and publishes nothing further.
	PollStopped
)

// String returns the string representation.
func (s PollState) String() string {
	switch s {
	case PollActive:
		return "active"
	case PollPaused:
		return "paused"
	case PollStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TaskSnapshot is published after every fetch attempt.
type TaskSnapshot struct {
	// Tasks is the latest successfully fetched list.
	// A failed fetch keeps the previous list.
	Tasks []domain.TaskRecord

	// State is the monitor state when the snapshot was taken.
	State PollState

	// Simulated is true when Tasks is fallback data.
	Simulated bool

	// Err is the error from the latest fetch, if it failed.
	Err error

	// FetchedAt is when the latest fetch completed.
	FetchedAt time.Time
}

// TaskMonitor repeatedly fetches task state with a pausable cadence.
type TaskMonitor interface {
	// Start begins polling with one immediate fetch.
	Start(ctx context.Context) error

	// Stop cancels the timer and waits for in-progress work. Idempotent.
	Stop() error

	// Pause stops the timer.
	Pause()

	// Resume fetches immediately then restarts the timer.
	Resume()

	// RefreshNow fetches immediately without touching the timer.
	RefreshNow()

	// State returns the current state.
	State() PollState

	// Snapshot returns the latest snapshot.
	Snapshot() TaskSnapshot

	// Updates delivers snapshots. Only the newest undelivered one is kept.
	Updates() <-chan TaskSnapshot
}
