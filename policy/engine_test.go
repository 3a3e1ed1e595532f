package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	data, err := tools.PolicyData()
	require.NoError(t, err)
	e, err := NewEngine(context.Background(), GuardPolicy, data)
	require.NoError(t, err)
	return e
}

func transition(id string, to domain.TicketStatus) *domain.TicketTransition {
	return &domain.TicketTransition{TicketID: id, To: to}
}

func TestGuardRolePartition(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		role  domain.Role
		tool  string
		allow bool
	}{
		{domain.RoleCustomer, tools.CustomerMyTickets, true},
		{domain.RoleCustomer, tools.FetchAllTickets, false},
		{domain.RoleCustomer, tools.FetchTicketsByCustomer, false},
		{domain.RoleCustomer, tools.EmpMyTickets, false},
		{domain.RoleServicePerson, tools.EmpMyTickets, true},
		{domain.RoleServicePerson, tools.FetchAllTickets, false},
		{domain.RoleAdmin, tools.FetchAllTickets, true},
		{domain.RoleAgent, tools.FetchTicketsByCustomer, true},
		{domain.RoleAgent, tools.CustomerMyTickets, false},
		{domain.RoleAdmin, tools.CreateCustomer, true},
		{domain.RoleServicePerson, tools.CreateTicket, false},
		{domain.RoleCustomer, tools.UpdateTicket, false},
		{domain.RoleServicePerson, tools.TicketAnalysisPerEmp, true},
	}
	for _, tt := range tests {
		got, err := e.Evaluate(ctx, Input{Role: tt.role, ToolName: tt.tool, SubjectID: "1"})
		require.NoError(t, err)
		assert.Equal(t, tt.allow, got.Allow, "%s -> %s", tt.role, tt.tool)
		if !tt.allow {
			assert.NotEmpty(t, got.Reason)
		}
	}
}

func TestGuardUnknownTool(t *testing.T) {
	e := newTestEngine(t)
	got, err := e.Evaluate(context.Background(), Input{Role: domain.RoleAdmin, ToolName: "drop_database"})
	require.NoError(t, err)
	assert.False(t, got.Allow)
	assert.Equal(t, "This operation is not supported.", got.Reason)
}

func TestGuardStatusTransitions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	open := &TicketState{Status: "Open", AssignedServicePersonID: "7"}
	inProgress := &TicketState{Status: "In_Progress", AssignedServicePersonID: "7"}
	closed := &TicketState{Status: "Close", AssignedServicePersonID: "7"}

	tests := []struct {
		name   string
		role   domain.Role
		sub    string
		to     domain.TicketStatus
		ticket *TicketState
		allow  bool
		reason string
	}{
		{"admin on open", domain.RoleAdmin, "1", domain.TicketStatusInProgress, open, false, "You are not authorized to update this ticket while it is Open"},
		{"agent on open to close", domain.RoleAgent, "1", domain.TicketStatusClose, open, false, "You are not authorized to update this ticket while it is Open"},
		{"agent reopening open", domain.RoleAgent, "1", domain.TicketStatusOpen, open, false, "You are not authorized to update this ticket while it is Open"},
		{"assigned sp starts work", domain.RoleServicePerson, "7", domain.TicketStatusInProgress, open, true, ""},
		{"other sp starts work", domain.RoleServicePerson, "8", domain.TicketStatusInProgress, open, false, "Only the assigned service person can start work on this ticket."},
		{"sp skips to close", domain.RoleServicePerson, "7", domain.TicketStatusClose, open, false, "A ticket cannot move from Open to Close."},
		{"admin closes in progress", domain.RoleAdmin, "1", domain.TicketStatusClose, inProgress, true, ""},
		{"sp closes in progress", domain.RoleServicePerson, "7", domain.TicketStatusClose, inProgress, true, ""},
		{"backwards", domain.RoleAdmin, "1", domain.TicketStatusOpen, inProgress, false, "A ticket cannot move from In_Progress to Open."},
		{"reopen closed", domain.RoleServicePerson, "7", domain.TicketStatusInProgress, closed, false, "A ticket cannot move from Close to In_Progress."},
		{"same status", domain.RoleAgent, "1", domain.TicketStatusInProgress, inProgress, true, ""},
		{"unknown ticket", domain.RoleAdmin, "1", domain.TicketStatusClose, nil, false, "Ticket 42 was not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(ctx, Input{
				Role:       tt.role,
				ToolName:   tools.UpdateTicket,
				SubjectID:  tt.sub,
				Transition: transition("42", tt.to),
				Ticket:     tt.ticket,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.allow, got.Allow)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestGuardFieldUpdateIgnoresState(t *testing.T) {
	e := newTestEngine(t)
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleServicePerson} {
		got, err := e.Evaluate(context.Background(), Input{Role: role, ToolName: tools.UpdateTicket, SubjectID: "1"})
		require.NoError(t, err)
		assert.True(t, got.Allow, role)
	}
	got, err := e.Evaluate(context.Background(), Input{Role: domain.RoleCustomer, ToolName: tools.UpdateTicket, SubjectID: "1"})
	require.NoError(t, err)
	assert.False(t, got.Allow)
	assert.Equal(t, "You are not authorized to update ticket.", got.Reason)
}
