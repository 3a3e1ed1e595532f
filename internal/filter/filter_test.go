package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

func sample() []domain.TicketRecord {
	return []domain.TicketRecord{
		{"ticket_id": float64(1), "priority": "High", "ticket_status": "Open"},
		{"ticket_id": float64(2), "priority": "Low", "ticket_status": "Close"},
		{"ticket_id": float64(3), "priority": "High", "ticket_status": "In_Progress"},
		{"ticket_id": float64(4), "priority": "Medium", "ticket_status": "Open"},
		{"ticket_id": float64(5), "priority": "high", "ticket_status": "in progress"},
	}
}

func ids(tickets []domain.TicketRecord) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID())
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		utterance string
		want      Predicate
	}{
		{"show my tickets", Predicate{}},
		{"show HIGH priority tickets", Predicate{Priority: "High"}},
		{"high and low tickets", Predicate{Priority: "High"}},
		{"open tickets", Predicate{Status: "Open"}},
		{"closed tickets with medium priority", Predicate{Priority: "Medium", Status: "Close"}},
		{"tickets in_progress", Predicate{Status: "In_Progress"}},
		{"Tickets In Progress", Predicate{Status: "In_Progress"}},
		{"reopen or close", Predicate{Status: "Open"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Parse(tt.utterance)); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.utterance, diff)
		}
	}
}

func TestTicketsNarrowsInOrder(t *testing.T) {
	tests := []struct {
		utterance string
		want      []string
	}{
		{"high priority tickets", []string{"1", "3", "5"}},
		{"high priority tickets in progress", []string{"3", "5"}},
		{"open tickets", []string{"1", "4"}},
		{"low open tickets", []string{}},
		{"all my tickets", []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		got := ids(Tickets(sample(), tt.utterance))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Tickets(%q) mismatch (-want +got):\n%s", tt.utterance, diff)
		}
	}
}

func TestTicketsNeverWidensAndIsIdempotent(t *testing.T) {
	for _, u := range []string{"high", "open", "medium closed", "in progress", "nothing"} {
		once := Tickets(sample(), u)
		assert.LessOrEqual(t, len(once), len(sample()), u)
		twice := Tickets(once, u)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("not idempotent for %q:\n%s", u, diff)
		}
	}
}

func TestTicketsNoMatchReturnsInput(t *testing.T) {
	in := sample()
	assert.Equal(t, in, Tickets(in, "what do I have"))
	assert.Empty(t, Tickets(nil, "high"))
}
