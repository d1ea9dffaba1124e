package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// RemoveRepoInput contains the parameters for deregistering a
// repository.
type RemoveRepoInput struct {
	Ref  string
	Path string
}

// RemoveRepoOutput contains the removed registration.
type RemoveRepoOutput struct {
	Repo *domain.Repo
}

// RemoveRepo is the use case for removing a repository registration.
// The clone itself is never touched.
type RemoveRepo struct {
	store domain.Store
}

// NewRemoveRepo creates a new RemoveRepo use case.
func NewRemoveRepo(store domain.Store) *RemoveRepo {
	return &RemoveRepo{store: store}
}

// Execute removes the registration of Path from the referenced task.
func (uc *RemoveRepo) Execute(_ context.Context, in RemoveRepoInput) (*RemoveRepoOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}

	path, err := filepath.Abs(in.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	repos, err := uc.store.ListRepos(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	for _, repo := range repos {
		if repo.Path == path {
			if err := uc.store.RemoveRepo(repo.ID); err != nil {
				return nil, fmt.Errorf("remove repo: %w", err)
			}
			return &RemoveRepoOutput{Repo: repo}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRepoNotFound, path)
}
