package usecase

import (
	"context"
	"fmt"

	"track/internal/domain"
	"track/internal/usecase/shared"
)

// LinkTicketInput contains the parameters for linking a ticket.
type LinkTicketInput struct {
	Ref       string
	TicketID  string
	TicketURL string
}

// LinkTicketOutput contains the updated task.
type LinkTicketOutput struct {
	Task *domain.Task
}

// LinkTicket is the use case for attaching an external ticket to a task.
type LinkTicket struct {
	store domain.Store
}

// NewLinkTicket creates a new LinkTicket use case.
func NewLinkTicket(store domain.Store) *LinkTicket {
	return &LinkTicket{store: store}
}

// Execute links a ticket to the referenced task. A ticket may be
// linked to at most one task; relinking the same ticket to the same
// task just updates the URL.
func (uc *LinkTicket) Execute(_ context.Context, in LinkTicketInput) (*LinkTicketOutput, error) {
	task, err := shared.ResolveTaskRef(uc.store, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := shared.RequireWritable(task); err != nil {
		return nil, err
	}

	if !domain.ValidTicketID(in.TicketID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTicket, in.TicketID)
	}
	existing, err := uc.store.FindTaskByTicket(in.TicketID)
	if err != nil {
		return nil, fmt.Errorf("find task by ticket: %w", err)
	}
	if existing != nil && existing.ID != task.ID {
		return nil, fmt.Errorf("%w: %s is linked to task %d", domain.ErrDuplicateTicket, in.TicketID, existing.ID)
	}

	if err := uc.store.SetTaskTicket(task.ID, in.TicketID, in.TicketURL); err != nil {
		return nil, fmt.Errorf("link ticket: %w", err)
	}
	task.TicketID = in.TicketID
	task.TicketURL = in.TicketURL
	return &LinkTicketOutput{Task: task}, nil
}
