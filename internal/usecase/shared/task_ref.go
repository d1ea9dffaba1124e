// Package shared provides helpers used by multiple use cases.
package shared

import (
	"fmt"
	"strconv"
	"strings"

	"track/internal/domain"
)

// ResolveTaskRef resolves a task reference to a task. An empty ref
// means the active task; "t:<ticket>" looks up by ticket; anything
// else is a numeric task ID.
func ResolveTaskRef(store domain.Store, ref string) (*domain.Task, error) {
	if ref == "" {
		id, err := store.CurrentTaskID()
		if err != nil {
			return nil, fmt.Errorf("get active task: %w", err)
		}
		if id == 0 {
			return nil, domain.ErrNoActiveTask
		}
		task, err := store.GetTask(id)
		if err != nil {
			return nil, fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		return task, nil
	}

	if ticket, ok := strings.CutPrefix(ref, "t:"); ok {
		task, err := store.FindTaskByTicket(ticket)
		if err != nil {
			return nil, fmt.Errorf("find task by ticket: %w", err)
		}
		if task == nil {
			return nil, domain.ErrTaskNotFound
		}
		return task, nil
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither a task ID nor a t:<ticket> reference", domain.ErrTaskNotFound, ref)
	}
	task, err := store.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// RequireWritable returns ErrTaskArchived if the task can no longer be
// modified.
func RequireWritable(task *domain.Task) error {
	if task.IsArchived() {
		return domain.ErrTaskArchived
	}
	return nil
}

// FindTodoByIndex returns the task's todo with the given task-local
// index, or ErrTodoNotFound.
func FindTodoByIndex(store domain.Store, taskID, index int64) (*domain.Todo, error) {
	todos, err := store.ListTodos(taskID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	for _, todo := range todos {
		if todo.TaskIndex == index {
			return todo, nil
		}
	}
	return nil, domain.ErrTodoNotFound
}
