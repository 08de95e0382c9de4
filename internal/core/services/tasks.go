package services

import (
	"context"

	"github.com/custodia-labs/kbadmin/internal/core/domain"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driven"
	"github.com/custodia-labs/kbadmin/internal/core/ports/driving"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// TaskService reads background ingestion tasks.
type TaskService struct {
	backend  driven.Backend
	maxTasks int
}

// NewTaskService creates a new task service.
// A non-positive maxTasks uses domain.DefaultMaxTasks.
func NewTaskService(backend driven.Backend, maxTasks int) *TaskService {
	if maxTasks <= 0 {
		maxTasks = domain.DefaultMaxTasks
	}
	return &TaskService{
		backend:  backend,
		maxTasks: maxTasks,
	}
}

// Recent returns the most recent tasks, at most maxTasks of them.
func (s *TaskService) Recent(ctx context.Context) (domain.Result[[]domain.TaskRecord], error) {
	res, err := s.backend.ListTasks(ctx)
	if err != nil {
		return res, err
	}
	if len(res.Value) > s.maxTasks {
		res.Value = res.Value[:s.maxTasks]
	}
	return res, nil
}

// Counts returns the number of tasks per status.
func (s *TaskService) Counts(tasks []domain.TaskRecord) []domain.StatusCount {
	return domain.CountByStatus(tasks)
}
