package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
)

// RemoveWorktreeInput contains the parameters for removing a worktree.
type RemoveWorktreeInput struct {
	WorktreeID int64
	KeepFiles  bool // drop the record but leave the directory on disk
}

// RemoveWorktreeOutput contains the removed worktree.
type RemoveWorktreeOutput struct {
	Worktree *domain.Worktree
}

// RemoveWorktree is the use case for discarding a worktree without
// merging it.
type RemoveWorktree struct {
	store domain.Store
	git   domain.Gateway
}

// NewRemoveWorktree creates a new RemoveWorktree use case.
func NewRemoveWorktree(store domain.Store, git domain.Gateway) *RemoveWorktree {
	return &RemoveWorktree{store: store, git: git}
}

// Execute removes the worktree's directory (unless KeepFiles is set)
// and then its record. Pending changes in the worktree are discarded.
func (uc *RemoveWorktree) Execute(_ context.Context, in RemoveWorktreeInput) (*RemoveWorktreeOutput, error) {
	wt, err := uc.store.GetWorktree(in.WorktreeID)
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	if wt == nil {
		return nil, domain.ErrWorktreeNotFound
	}

	if !in.KeepFiles {
		if err := uc.git.RemoveWorktree(wt.BaseRepo, wt.Path); err != nil {
			return nil, err
		}
	}
	if err := uc.store.DeleteWorktree(wt.ID); err != nil {
		return nil, fmt.Errorf("delete worktree record: %w", err)
	}
	return &RemoveWorktreeOutput{Worktree: wt}, nil
}
