package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// AddRepoInput contains the parameters for registering a repository.
// Fields are ordered to minimize memory padding.
type AddRepoInput struct {
	Ref        string
	Path       string // repository clone path
	BaseBranch string // branch the task branch forks from (optional)
	BaseCommit string // commit the task branch forks from (optional)
}

// AddRepoOutput contains the registered repository.
type AddRepoOutput struct {
	Repo *domain.Repo
}

// AddRepo is the use case for registering a repository clone with a
// task.
type AddRepo struct {
	store domain.Store
	git   domain.Gateway
}

// NewAddRepo creates a new AddRepo use case.
func NewAddRepo(store domain.Store, git domain.Gateway) *AddRepo {
	return &AddRepo{store: store, git: git}
}

// Execute registers the repository at Path with the referenced task.
// The path is verified to be a repository, and the base branch or
// commit, when given, is verified to resolve in it. When neither is
// given, the current branch and HEAD commit are recorded so the fork
// point stays where it was at registration, not wherever HEAD has
// moved to by the first sync.
func (uc *AddRepo) Execute(_ context.Context, in AddRepoInput) (*AddRepoOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}

	path, err := filepath.Abs(in.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if !uc.git.IsRepository(path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotARepository, path)
	}

	branch := in.BaseBranch
	if branch != "" {
		exists, err := uc.git.BranchExists(path, branch)
		if err != nil {
			return nil, fmt.Errorf("check base branch: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("base branch %q not found in %s", branch, path)
		}
	} else {
		// Detached HEAD has no branch; the commit below still pins
		// the fork point.
		if cur, err := uc.git.CurrentBranch(path); err == nil {
			branch = cur
		}
	}

	commit := in.BaseCommit
	if commit == "" {
		commit = "HEAD"
	}
	// Normalize to a full hash so later syncs are unambiguous.
	commit, err = uc.git.RevParse(path, commit)
	if err != nil {
		return nil, fmt.Errorf("resolve base commit: %w", err)
	}

	repo, err := uc.store.AddRepo(task.ID, path, branch, commit)
	if err != nil {
		return nil, err
	}
	return &AddRepoOutput{Repo: repo}, nil
}
