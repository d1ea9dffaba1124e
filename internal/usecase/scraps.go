package usecase

import (
	"context"
	"fmt"
	"strings"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// AddScrapInput contains the parameters for attaching a scrap.
type AddScrapInput struct {
	Ref     string
	Content string
}

// AddScrapOutput contains the created scrap.
type AddScrapOutput struct {
	Scrap *domain.Scrap
}

// AddScrap is the use case for attaching a note to a task.
type AddScrap struct {
	store domain.Store
}

// NewAddScrap creates a new AddScrap use case.
func NewAddScrap(store domain.Store) *AddScrap {
	return &AddScrap{store: store}
}

// Execute attaches a note to the referenced task.
func (uc *AddScrap) Execute(_ context.Context, in AddScrapInput) (*AddScrapOutput, error) {
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
	scrap, err := uc.store.AddScrap(task.ID, in.Content)
	if err != nil {
		return nil, fmt.Errorf("add scrap: %w", err)
	}
	return &AddScrapOutput{Scrap: scrap}, nil
}

// ListScrapsInput contains the parameters for listing scraps.
type ListScrapsInput struct {
	Ref string
}

// ListScrapsOutput contains the task and its scraps.
type ListScrapsOutput struct {
	Task   *domain.Task
	Scraps []*domain.Scrap
}

// ListScraps is the use case for listing a task's scraps.
type ListScraps struct {
	store domain.Store
}

// NewListScraps creates a new ListScraps use case.
func NewListScraps(store domain.Store) *ListScraps {
	return &ListScraps{store: store}
}

// Execute lists the referenced task's scraps.
func (uc *ListScraps) Execute(_ context.Context, in ListScrapsInput) (*ListScrapsOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	scraps, err := uc.store.ListScraps(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list scraps: %w", err)
	}
	return &ListScrapsOutput{Task: task, Scraps: scraps}, nil
}
