// Package domain defines the core domain models for the support desk router.
package domain

// Role is the caller's role as resolved by the identity service.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleAgent         Role = "Agent"
	RoleServicePerson Role = "ServicePerson"
	RoleCustomer      Role = "Customer"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleServicePerson, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether r is an Admin or an Agent.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// TicketStatus represents the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In_Progress"
	TicketStatusClose      TicketStatus = "Close"
)

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// DraftKind identifies a multi-turn creation flow.
type DraftKind string

const (
	DraftKindCustomer DraftKind = "customer"
	DraftKindTicket   DraftKind = "ticket"
)

// ResultKind describes what the caller receives in the envelope data.
type ResultKind string

const (
	// ResultKindData returns the remote payload as data.
	ResultKindData ResultKind = "data"
	// ResultKindTickets returns a post-filtered ticket collection as data.
	ResultKindTickets ResultKind = "tickets"
	// ResultKindAck returns only a message; data is null.
	ResultKindAck ResultKind = "ack"
)

// EventType represents the type of a turn audit event.
type EventType string

const (
	EventTypeUserInput      EventType = "user_input"
	EventTypeToolProposed   EventType = "tool_proposed"
	EventTypeToolResolved   EventType = "tool_resolved"
	EventTypePolicyDecision EventType = "policy_decision"
	EventTypeClarification  EventType = "clarification"
	EventTypeToolResult     EventType = "tool_result"
	EventTypeReply          EventType = "reply"
	EventTypeTurnFailed     EventType = "turn_failed"
)
