package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// ListTodosInput contains the parameters for listing todos.
type ListTodosInput struct {
	Ref string
}

// ListTodosOutput contains the task and its todos in index order.
type ListTodosOutput struct {
	Task  *domain.Task
	Todos []*domain.Todo
}

// ListTodos is the use case for listing a task's todos.
type ListTodos struct {
	store domain.Store
}

// NewListTodos creates a new ListTodos use case.
func NewListTodos(store domain.Store) *ListTodos {
	return &ListTodos{store: store}
}

// Execute lists the referenced task's todos.
func (uc *ListTodos) Execute(_ context.Context, in ListTodosInput) (*ListTodosOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	todos, err := uc.store.ListTodos(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return &ListTodosOutput{Task: task, Todos: todos}, nil
}
