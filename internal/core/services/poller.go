package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
	"github.com/custodia-labs/kbadmin/internal/logger"
)

// Ensure TaskPoller implements the interface.
var _ driving.TaskMonitor = (*TaskPoller)(nil)

// TaskPoller fetches recent tasks on a fixed interval while active.
//
// Fetches run in their own goroutines and are numbered; a result that
// arrives after a newer one has been applied is discarded. Each applied
// success replaces the task list wholesale.
type TaskPoller struct {
	tasks    driving.TaskService
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	state    driving.PollState
	started  bool
	ctx      context.Context
	cancel   context.CancelFunc
	issued   uint64
	applied  uint64
	snapshot driving.TaskSnapshot

	wake    chan struct{}
	updates chan driving.TaskSnapshot
	wg      sync.WaitGroup
}

// NewTaskPoller creates a poller. A non-positive interval uses
// domain.DefaultPollInterval.
func NewTaskPoller(tasks driving.TaskService, interval time.Duration) *TaskPoller {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	return &TaskPoller{
		tasks:    tasks,
		interval: interval,
		now:      time.Now,
		state:    driving.PollActive,
		wake:     make(chan struct{}, 1),
		updates:  make(chan driving.TaskSnapshot, 1),
	}
}

// Start launches the poll loop and performs one immediate fetch.
// It returns without waiting for the fetch.
func (p *TaskPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state == driving.PollStopped {
		p.mu.Unlock()
		return domain.ErrPollerStopped
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run()
	return nil
}

// Stop cancels the timer and any in-progress fetch, then waits for them.
// Nothing is published afterwards and the Updates channel is closed.
func (p *TaskPoller) Stop() error {
	p.mu.Lock()
	if p.state == driving.PollStopped {
		p.mu.Unlock()
		return nil
	}
	p.state = driving.PollStopped
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	close(p.updates)
	p.mu.Unlock()
	return nil
}

// Pause stops the timer. Fetches already in progress still publish.
func (p *TaskPoller) Pause() {
	p.mu.Lock()
	if p.state != driving.PollActive {
		p.mu.Unlock()
		return
	}
	p.state = driving.PollPaused
	p.mu.Unlock()

	logger.Debug("task poller paused")
	p.signal()
}

// Resume fetches immediately, then restarts the timer.
func (p *TaskPoller) Resume() {
	p.mu.Lock()
	if p.state != driving.PollPaused {
		p.mu.Unlock()
		return
	}
	p.state = driving.PollActive
	p.mu.Unlock()

	logger.Debug("task poller resumed")
	p.fetch()
	p.signal()
}

// RefreshNow fetches immediately in either state without touching the timer.
func (p *TaskPoller) RefreshNow() {
	p.fetch()
}

// State returns the current state.
func (p *TaskPoller) State() driving.PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot returns the latest snapshot, stamped with the current state.
func (p *TaskPoller) Snapshot() driving.TaskSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snapshot
	snap.State = p.state
	return snap
}

// Updates delivers snapshots. Only the newest undelivered one is kept.
func (p *TaskPoller) Updates() <-chan driving.TaskSnapshot {
	return p.updates
}

// run owns the ticker. It exits when the poller's context is done.
func (p *TaskPoller) run() {
	defer p.wg.Done()

	p.fetch()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	if p.State() != driving.PollActive {
		ticker.Stop()
	}

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			// A tick buffered before Pause is ignored.
			if p.State() == driving.PollActive {
				p.fetch()
			}
		case <-p.wake:
			if p.State() == driving.PollActive {
				ticker.Reset(p.interval)
			} else {
				ticker.Stop()
			}
		}
	}
}

func (p *TaskPoller) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// fetch starts one numbered fetch. It is a no-op before Start or after Stop.
func (p *TaskPoller) fetch() {
	p.mu.Lock()
	if !p.started || p.state == driving.PollStopped {
		p.mu.Unlock()
		return
	}
	p.issued++
	seq := p.issued
	ctx := p.ctx
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		res, err := p.tasks.Recent(ctx)
		p.apply(seq, res, err)
	}()
}

func (p *TaskPoller) apply(seq uint64, res domain.Result[[]domain.TaskRecord], err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == driving.PollStopped {
		return
	}
	if seq < p.applied {
		logger.Debug("task poller: dropping stale fetch %d (applied %d)", seq, p.applied)
		return
	}
	p.applied = seq

	if err != nil {
		logger.Debug("task poller: fetch %d failed: %v", seq, err)
		p.snapshot.Err = err
	} else {
		p.snapshot.Tasks = res.Value
		p.snapshot.Simulated = res.Simulated
		p.snapshot.Err = nil
	}
	p.snapshot.State = p.state
	p.snapshot.FetchedAt = p.now()

	p.publish(p.snapshot)
}

// publish replaces any undelivered snapshot (caller must hold lock).
func (p *TaskPoller) publish(snap driving.TaskSnapshot) {
	select {
	case p.updates <- snap:
		return
	default:
	}
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- snap:
	default:
	}
}
