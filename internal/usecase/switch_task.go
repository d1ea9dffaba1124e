package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// SwitchTaskInput contains the parameters for switching the active task.
type SwitchTaskInput struct {
	Ref string // task ID or t:<ticket>
}

// SwitchTaskOutput contains the newly active task.
type SwitchTaskOutput struct {
	Task *domain.Task
}

// SwitchTask is the use case for changing the active task.
type SwitchTask struct {
	store domain.Store
}

// NewSwitchTask creates a new SwitchTask use case.
func NewSwitchTask(store domain.Store) *SwitchTask {
	return &SwitchTask{store: store}
}

// Execute makes the referenced task the active one. Archived tasks
// cannot become active.
func (uc *SwitchTask) Execute(_ context.Context, in SwitchTaskInput) (*SwitchTaskOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if task.IsArchived() {
		return nil, domain.ErrTaskArchived
	}
	if err := uc.store.SetCurrentTaskID(task.ID); err != nil {
		return nil, fmt.Errorf("set active task: %w", err)
	}
	return &SwitchTaskOutput{Task: task}, nil
}
