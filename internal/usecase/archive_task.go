package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// ArchiveTaskInput contains the parameters for archiving a task.
type ArchiveTaskInput struct {
	Ref string // task ID or t:<ticket>; empty = active task
}

// ArchiveTaskOutput contains the archived task.
type ArchiveTaskOutput struct {
	Task *domain.Task
}

// ArchiveTask is the use case for archiving a task.
type ArchiveTask struct {
	store domain.Store
}

// NewArchiveTask creates a new ArchiveTask use case.
func NewArchiveTask(store domain.Store) *ArchiveTask {
	return &ArchiveTask{store: store}
}

// Execute archives the referenced task. If it was the active task the
// active marker is cleared. Archiving an archived task is a no-op.
func (uc *ArchiveTask) Execute(_ context.Context, in ArchiveTaskInput) (*ArchiveTaskOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if task.IsArchived() {
		return &ArchiveTaskOutput{Task: task}, nil
	}

	if err := uc.store.SetTaskStatus(task.ID, domain.TaskArchived); err != nil {
		return nil, fmt.Errorf("archive task: %w", err)
	}
	task.Status = domain.TaskArchived

	current, err := uc.store.CurrentTaskID()
	if err != nil {
		return nil, fmt.Errorf("get active task: %w", err)
	}
	if current == task.ID {
		if err := uc.store.ClearCurrentTaskID(); err != nil {
			return nil, fmt.Errorf("clear active task: %w", err)
		}
	}

	return &ArchiveTaskOutput{Task: task}, nil
}
