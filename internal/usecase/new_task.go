// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Name        string // Task name (required)
	Description string // Task description (optional)
	TicketID    string // External ticket reference (optional)
	TicketURL   string // Ticket URL (optional)
	NoSwitch    bool   // Do not make the new task the active one
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	store domain.Store
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(store domain.Store) *NewTask {
	return &NewTask{store: store}
}

// Execute creates a new task. Unless NoSwitch is set the new task
// becomes the active one.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	if in.Name == "" {
		return nil, domain.ErrEmptyTaskName
	}

	if in.TicketID != "" {
		if !domain.ValidTicketID(in.TicketID) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTicket, in.TicketID)
		}
		existing, err := uc.store.FindTaskByTicket(in.TicketID)
		if err != nil {
			return nil, fmt.Errorf("find task by ticket: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s is linked to task %d", domain.ErrDuplicateTicket, in.TicketID, existing.ID)
		}
	}

	task, err := uc.store.CreateTask(in.Name, in.Description, in.TicketID, in.TicketURL)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if !in.NoSwitch {
		if err := uc.store.SetCurrentTaskID(task.ID); err != nil {
			return nil, fmt.Errorf("set active task: %w", err)
		}
	}

	return &NewTaskOutput{Task: task}, nil
}
