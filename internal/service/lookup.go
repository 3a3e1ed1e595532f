package service

import (
	"context"
	"fmt"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/policy"
)

// TicketLookup finds the current state of a ticket visible to the caller.
// A nil state with a nil error means the ticket was not found.
type TicketLookup interface {
	Find(ctx context.Context, id domain.Identity, ticketID string) (*policy.TicketState, error)
}

// resourceTicketLookup reads the caller's own ticket listing. It only ever
// issues the role's read-only base fetch.
type resourceTicketLookup struct {
	registry *tools.Registry
	api      tools.Caller
}

func (l *resourceTicketLookup) Find(ctx context.Context, id domain.Identity, ticketID string) (*policy.TicketState, error) {
	base := tools.BaseFetch(id.Role)
	if base == "" {
		return nil, nil
	}
	result, err := l.registry.Execute(ctx, l.api, base, nil, id)
	if err != nil {
		return nil, fmt.Errorf("ticket lookup: %w", err)
	}
	if result.Failed() {
		return nil, nil
	}
	tickets, err := domain.TicketsFromData(result.Data)
	if err != nil {
		return nil, fmt.Errorf("ticket lookup: %w", err)
	}
	for _, t := range tickets {
		if t.ID() == ticketID {
			return &policy.TicketState{
				Status:                  tools.CanonicalStatus(t.Status()),
				AssignedServicePersonID: t.AssignedServicePersonID(),
			}, nil
		}
	}
	return nil, nil
}
