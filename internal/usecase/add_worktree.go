package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// AddWorktreeInput contains the parameters for creating a worktree.
// Fields are ordered to minimize memory padding.
type AddWorktreeInput struct {
	Ref       string
	RepoPath  string // repository to create the worktree from
	Branch    string // explicit branch name (optional)
	TodoIndex int64  // task-local todo index to link (0 = none)
	Base      bool   // mark as the task's base worktree
}

// AddWorktreeOutput contains the created worktree.
type AddWorktreeOutput struct {
	Worktree *domain.Worktree
}

// AddWorktree is the use case for creating a worktree and its tracking
// record. All worktree creation, including the sync orchestrator's,
// goes through here so the invariants hold in one place: at most one
// base worktree per task and at most one active worktree per todo.
type AddWorktree struct {
	store domain.Store
	git   domain.Gateway
	clock domain.Clock
}

// NewAddWorktree creates a new AddWorktree use case.
func NewAddWorktree(store domain.Store, git domain.Gateway, clock domain.Clock) *AddWorktree {
	return &AddWorktree{store: store, git: git, clock: clock}
}

// Execute creates a worktree of RepoPath for the referenced task. The
// branch name is derived from the explicit name, the task's ticket and
// the linked todo; the path is derived from the repository and branch.
// The record is inserted only after the working copy exists on disk.
func (uc *AddWorktree) Execute(_ context.Context, in AddWorktreeInput) (*AddWorktreeOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}

	repoPath, err := filepath.Abs(in.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if !uc.git.IsRepository(repoPath) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotARepository, repoPath)
	}

	var todoID int64
	if in.TodoIndex > 0 {
		todo, err := shared.FindTodoByIndex(uc.store, task.ID, in.TodoIndex)
		if err != nil {
			return nil, err
		}
		existing, err := uc.store.WorktreeByTodo(todo.ID)
		if err != nil {
			return nil, fmt.Errorf("check todo worktree: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: todo %d", domain.ErrTodoHasWorktree, in.TodoIndex)
		}
		todoID = todo.ID
	}

	if in.Base {
		existing, err := uc.store.BaseWorktree(task.ID)
		if err != nil {
			return nil, fmt.Errorf("check base worktree: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrBaseExists
		}
	}

	branch := domain.ResolveBranchName(in.Branch, task.TicketID, task.ID, in.TodoIndex, uc.clock.Now())
	path := domain.WorktreePath(repoPath, branch)

	if err := uc.git.CreateWorktree(repoPath, path, branch); err != nil {
		return nil, err
	}

	wt, err := uc.store.AddWorktree(&domain.Worktree{
		TaskID:   task.ID,
		TodoID:   todoID,
		Path:     path,
		Branch:   branch,
		BaseRepo: repoPath,
		IsBase:   in.Base,
	})
	if err != nil {
		return nil, fmt.Errorf("record worktree: %w", err)
	}
	return &AddWorktreeOutput{Worktree: wt}, nil
}
