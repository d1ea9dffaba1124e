package usecase

import (
	"context"
	"fmt"
	"strings"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// AddTodoInput contains the parameters for adding a todo.
// Fields are ordered to minimize memory padding.
type AddTodoInput struct {
	Ref      string
	Content  string
	Worktree bool // request a dedicated worktree at next sync
}

// AddTodoOutput contains the created todo.
type AddTodoOutput struct {
	Todo *domain.Todo
}

// AddTodo is the use case for appending a todo to a task.
type AddTodo struct {
	store domain.Store
}

// NewAddTodo creates a new AddTodo use case.
func NewAddTodo(store domain.Store) *AddTodo {
	return &AddTodo{store: store}
}

// Execute appends a todo to the referenced task. The worktree flag is
// fixed at creation; the sync orchestrator materializes the worktree.
func (uc *AddTodo) Execute(_ context.Context, in AddTodoInput) (*AddTodoOutput, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.ErrEmptyContent
	}
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}
	todo, err := uc.store.AddTodo(task.ID, in.Content, in.Worktree)
	if err != nil {
		return nil, fmt.Errorf("add todo: %w", err)
	}
	return &AddTodoOutput{Todo: todo}, nil
}
