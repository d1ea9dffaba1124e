package usecase

import (
	"context"
	"fmt"
	"strings"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// AddLinkInput contains the parameters for attaching a link.
type AddLinkInput struct {
	Ref   string
	URL   string
	Title string
}

// AddLinkOutput contains the created link.
type AddLinkOutput struct {
	Link *domain.Link
}

// AddLink is the use case for attaching a URL to a task.
type AddLink struct {
	store domain.Store
}

// NewAddLink creates a new AddLink use case.
func NewAddLink(store domain.Store) *AddLink {
	return &AddLink{store: store}
}

// Execute attaches a URL to the referenced task.
func (uc *AddLink) Execute(_ context.Context, in AddLinkInput) (*AddLinkOutput, error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, domain.ErrEmptyContent
	}
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}
	link, err := uc.store.AddLink(task.ID, in.URL, in.Title)
	if err != nil {
		return nil, fmt.Errorf("add link: %w", err)
	}
	return &AddLinkOutput{Link: link}, nil
}

// ListLinksInput contains the parameters for listing links.
type ListLinksInput struct {
	Ref string
}

// ListLinksOutput contains the task and its links.
type ListLinksOutput struct {
	Task  *domain.Task
	Links []*domain.Link
}

// ListLinks is the use case for listing a task's links.
type ListLinks struct {
	store domain.Store
}

// NewListLinks creates a new ListLinks use case.
func NewListLinks(store domain.Store) *ListLinks {
	return &ListLinks{store: store}
}

// Execute lists the referenced task's links.
func (uc *ListLinks) Execute(_ context.Context, in ListLinksInput) (*ListLinksOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	links, err := uc.store.ListLinks(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return &ListLinksOutput{Task: task, Links: links}, nil
}

// DeleteLinkInput contains the parameters for deleting a link.
type DeleteLinkInput struct {
	Ref    string
	LinkID int64
}

// DeleteLinkOutput contains the deleted link.
type DeleteLinkOutput struct {
	Link *domain.Link
}

// DeleteLink is the use case for removing a link from a task.
type DeleteLink struct {
	store domain.Store
}

// NewDeleteLink creates a new DeleteLink use case.
func NewDeleteLink(store domain.Store) *DeleteLink {
	return &DeleteLink{store: store}
}

// Execute deletes the link with the given ID from the referenced task.
func (uc *DeleteLink) Execute(_ context.Context, in DeleteLinkInput) (*DeleteLinkOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	links, err := uc.store.ListLinks(task.ID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	for _, link := range links {
		if link.ID == in.LinkID {
			if err := uc.store.DeleteLink(link.ID); err != nil {
				return nil, fmt.Errorf("delete link: %w", err)
			}
			return &DeleteLinkOutput{Link: link}, nil
		}
	}
	return nil, domain.ErrLinkNotFound
}
