// Package filter narrows ticket collections using keywords found in the
// caller's own words.
package filter

import (
	"strings"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

type keyword struct {
	tokens []string
	value  string
}

// Checked in order; the first match of each list wins.
var (
	priorityKeywords = []keyword{
		{tokens: []string{"high"}, value: string(domain.TicketPriorityHigh)},
		{tokens: []string{"medium"}, value: string(domain.TicketPriorityMedium)},
		{tokens: []string{"low"}, value: string(domain.TicketPriorityLow)},
	}
	statusKeywords = []keyword{
		{tokens: []string{"open"}, value: string(domain.TicketStatusOpen)},
		{tokens: []string{"close"}, value: string(domain.TicketStatusClose)},
		{tokens: []string{"in progress", "in_progress", "inprogress"}, value: string(domain.TicketStatusInProgress)},
	}
)

// Predicate is the narrowing derived from one utterance. Empty fields do not
// constrain.
type Predicate struct {
	Priority string
	Status   string
}

// Empty reports whether p keeps every ticket.
func (p Predicate) Empty() bool {
	return p.Priority == "" && p.Status == ""
}

// Parse derives the predicate from utterance.
func Parse(utterance string) Predicate {
	text := strings.ToLower(utterance)
	return Predicate{
		Priority: firstMatch(text, priorityKeywords),
		Status:   firstMatch(text, statusKeywords),
	}
}

func firstMatch(text string, keywords []keyword) string {
	for _, k := range keywords {
		for _, tok := range k.tokens {
			if strings.Contains(text, tok) {
				return k.value
			}
		}
	}
	return ""
}

// Match reports whether t satisfies p.
func (p Predicate) Match(t domain.TicketRecord) bool {
	if p.Priority != "" && tools.CanonicalPriority(t.Priority()) != p.Priority {
		return false
	}
	if p.Status != "" && tools.CanonicalStatus(t.Status()) != p.Status {
		return false
	}
	return true
}

// Apply returns the tickets matching p in their original order. With an
// empty predicate the input slice is returned as is.
func (p Predicate) Apply(tickets []domain.TicketRecord) []domain.TicketRecord {
	if p.Empty() {
		return tickets
	}
	out := make([]domain.TicketRecord, 0, len(tickets))
	for _, t := range tickets {
		if p.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tickets narrows tickets by the keywords in utterance.
func Tickets(tickets []domain.TicketRecord, utterance string) []domain.TicketRecord {
	return Parse(utterance).Apply(tickets)
}
