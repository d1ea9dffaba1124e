package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// ListWorktreesInput contains the parameters for listing worktrees.
type ListWorktreesInput struct {
	Ref string
}

// ListWorktreesOutput contains the task and its worktrees.
type ListWorktreesOutput struct {
	Task      *domain.Task
	Worktrees []*domain.Worktree
}

// ListWorktrees is the use case for listing a task's worktrees.
type ListWorktrees struct {
	store domain.Store
}

// NewListWorktrees creates a new ListWorktrees use case.
func NewListWorktrees(store domain.Store) *ListWorktrees {
	return &ListWorktrees{store: store}
}

// Execute lists the referenced task's worktrees.
func (uc *ListWorktrees) Execute(_ context.Context, in ListWorktreesInput) (*ListWorktreesOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	wts, err := uc.store.ListWorktrees(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return &ListWorktreesOutput{Task: task, Worktrees: wts}, nil
}
