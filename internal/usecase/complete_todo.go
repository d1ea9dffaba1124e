package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// CompleteTodoInput contains the parameters for completing a todo.
type CompleteTodoInput struct {
	Ref   string
	Index int64 // task-local todo index
}

// CompleteTodoOutput contains the result of completing a todo.
// Fields are ordered to minimize memory padding.
type CompleteTodoOutput struct {
	Todo         *domain.Todo
	MergedBranch string // branch that was merged, empty if no worktree
	MergedInto   string // merge target path, empty if no worktree
	HadWorktree  bool
}

// CompleteTodo is the use case for finishing a todo: its worktree, if
// any, is merged into the task's base target and removed, then the
// todo is marked done.
type CompleteTodo struct {
	store domain.Store
	git   domain.Gateway
	clock domain.Clock
}

// NewCompleteTodo creates a new CompleteTodo use case.
func NewCompleteTodo(store domain.Store, git domain.Gateway, clock domain.Clock) *CompleteTodo {
	return &CompleteTodo{store: store, git: git, clock: clock}
}

// Execute completes a todo. The merge target is the task's base
// worktree if one exists, otherwise the repository the todo's worktree
// was created from. Pending changes in the worktree abort the
// completion with the worktree and record intact.
func (uc *CompleteTodo) Execute(_ context.Context, in CompleteTodoInput) (*CompleteTodoOutput, error) {
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

	wt, err := uc.store.WorktreeByTodo(todo.ID)
	if err != nil {
		return nil, fmt.Errorf("get todo worktree: %w", err)
	}

	out := &CompleteTodoOutput{Todo: todo}

	if wt != nil {
		target, err := uc.mergeTarget(task.ID, wt)
		if err != nil {
			return nil, err
		}

		dirty, err := uc.git.HasPendingChanges(wt.Path)
		if err != nil {
			return nil, err
		}
		if dirty {
			return nil, fmt.Errorf("%w in %s", domain.ErrUncommittedChanges, wt.Path)
		}

		if err := uc.git.Merge(target, wt.Branch); err != nil {
			return nil, err
		}
		if err := uc.git.RemoveWorktree(wt.BaseRepo, wt.Path); err != nil {
			return nil, err
		}
		if err := uc.store.DeleteWorktree(wt.ID); err != nil {
			return nil, fmt.Errorf("delete worktree record: %w", err)
		}

		out.HadWorktree = true
		out.MergedBranch = wt.Branch
		out.MergedInto = target
	}

	now := uc.clock.Now()
	if err := uc.store.SetTodoStatus(todo.ID, domain.TodoDone, &now); err != nil {
		return nil, fmt.Errorf("set todo status: %w", err)
	}
	todo.Status = domain.TodoDone
	todo.Completed = &now
	return out, nil
}

// mergeTarget picks the working copy the todo's branch merges into.
func (uc *CompleteTodo) mergeTarget(taskID int64, wt *domain.Worktree) (string, error) {
	base, err := uc.store.BaseWorktree(taskID)
	if err != nil {
		return "", fmt.Errorf("get base worktree: %w", err)
	}
	if base != nil {
		return base.Path, nil
	}
	if wt.BaseRepo != "" {
		return wt.BaseRepo, nil
	}
	return "", domain.ErrNoBaseTarget
}
