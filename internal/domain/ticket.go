package domain

import (
	"fmt"
	"strconv"
)

// TicketRecord is a ticket as returned by the resource API. Fields the router
// does not reason about are passed through untouched.
type TicketRecord map[string]any

// ID returns the ticket id formatted as a string.
func (t TicketRecord) ID() string {
	return scalarString(t["ticket_id"])
}

// Status returns the raw ticket_status value.
func (t TicketRecord) Status() string {
	s, _ := t["ticket_status"].(string)
	return s
}

// Priority returns the raw priority value.
func (t TicketRecord) Priority() string {
	s, _ := t["priority"].(string)
	return s
}

// AssignedServicePersonID returns the assigned service person, or "" when
// the ticket is unassigned.
func (t TicketRecord) AssignedServicePersonID() string {
	return scalarString(t["service_person_emp_id"])
}

// TicketsFromData converts a decoded JSON array into ticket records.
// Non-object elements are rejected.
func TicketsFromData(data any) ([]TicketRecord, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a ticket list, got %T", data)
	}
	tickets := make([]TicketRecord, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ticket %d: expected an object, got %T", i, item)
		}
		tickets = append(tickets, TicketRecord(obj))
	}
	return tickets, nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
