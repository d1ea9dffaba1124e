package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// SetDescriptionInput contains the parameters for updating a task's
// description.
type SetDescriptionInput struct {
	Ref         string
	Description string
}

// SetDescriptionOutput contains the updated task.
type SetDescriptionOutput struct {
	Task *domain.Task
}

// SetDescription is the use case for updating a task's description.
type SetDescription struct {
	store domain.Store
}

// NewSetDescription creates a new SetDescription use case.
func NewSetDescription(store domain.Store) *SetDescription {
	return &SetDescription{store: store}
}

// Execute replaces the referenced task's description.
func (uc *SetDescription) Execute(_ context.Context, in SetDescriptionInput) (*SetDescriptionOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}
	if err := uc.store.SetTaskDescription(task.ID, in.Description); err != nil {
		return nil, fmt.Errorf("set description: %w", err)
	}
	task.Description = in.Description
	return &SetDescriptionOutput{Task: task}, nil
}
