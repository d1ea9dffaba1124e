package usecase

import (
	"context"
	"fmt"
	"time"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// SetTodoStatusInput contains the parameters for a direct todo status
// edit.
type SetTodoStatusInput struct {
	Ref    string
	Status domain.TodoStatus
	Index  int64 // task-local todo index
}

// SetTodoStatusOutput contains the updated todo.
type SetTodoStatusOutput struct {
	Todo *domain.Todo
}

// SetTodoStatus is the use case for editing a todo's status without
// touching its worktree. Use CompleteTodo to finish a todo and merge
// its worktree.
type SetTodoStatus struct {
	store domain.Store
	clock domain.Clock
}

// NewSetTodoStatus creates a new SetTodoStatus use case.
func NewSetTodoStatus(store domain.Store, clock domain.Clock) *SetTodoStatus {
	return &SetTodoStatus{store: store, clock: clock}
}

// Execute sets the status of a todo. Done and cancelled record the
// completion time; moving back to pending clears it.
func (uc *SetTodoStatus) Execute(_ context.Context, in SetTodoStatusInput) (*SetTodoStatusOutput, error) {
	if !domain.ValidTodoStatus(in.Status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Status)
	}
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}
	todo, err := shared.FindTodoByIndex(uc.store, task.ID, in.Index)
	if err != nil {
		return nil, err
	}

	var completed *time.Time
	if in.Status != domain.TodoPending {
		now := uc.clock.Now()
		completed = &now
	}
	if err := uc.store.SetTodoStatus(todo.ID, in.Status, completed); err != nil {
		return nil, fmt.Errorf("set todo status: %w", err)
	}
	todo.Status = in.Status
	todo.Completed = completed
	return &SetTodoStatusOutput{Todo: todo}, nil
}
