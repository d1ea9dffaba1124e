package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// ListReposInput contains the parameters for listing repositories.
type ListReposInput struct {
	Ref string
}

// ListReposOutput contains the task and its registered repositories.
type ListReposOutput struct {
	Task  *domain.Task
	Repos []*domain.Repo
}

// ListRepos is the use case for listing a task's repositories.
type ListRepos struct {
	store domain.Store
}

// NewListRepos creates a new ListRepos use case.
func NewListRepos(store domain.Store) *ListRepos {
	return &ListRepos{store: store}
}

// Execute lists the referenced task's repositories.
func (uc *ListRepos) Execute(_ context.Context, in ListReposInput) (*ListReposOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	repos, err := uc.store.ListRepos(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list repos: %w", err)
	}
	return &ListReposOutput{Task: task, Repos: repos}, nil
}
