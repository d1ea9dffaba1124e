package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	IncludeArchived bool
}

// ListTasksOutput contains the listed tasks and the active task ID
// (0 if none).
type ListTasksOutput struct {
	Tasks     []*domain.Task
	CurrentID int64
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store domain.Store
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.Store) *ListTasks {
	return &ListTasks{store: store}
}

// Execute lists tasks, newest first.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	tasks, err := uc.store.ListTasks(in.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	current, err := uc.store.CurrentTaskID()
	if err != nil {
		return nil, fmt.Errorf("get active task: %w", err)
	}
	return &ListTasksOutput{Tasks: tasks, CurrentID: current}, nil
}
