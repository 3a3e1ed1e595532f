package tools

import (
	"strings"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

func foldKey(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// CanonicalStatus maps caller-facing status spellings ("in progress",
// "In_Progress", "inprogress", "closed") to the single token the resource
// API stores. Unknown values come back trimmed but otherwise unchanged.
func CanonicalStatus(s string) string {
	switch foldKey(s) {
	case "open":
		return string(domain.TicketStatusOpen)
	case "inprogress":
		return string(domain.TicketStatusInProgress)
	case "close", "closed":
		return string(domain.TicketStatusClose)
	}
	return strings.TrimSpace(s)
}

// CanonicalPriority maps priority spellings to Low, Medium or High.
func CanonicalPriority(s string) string {
	switch foldKey(s) {
	case "low":
		return string(domain.TicketPriorityLow)
	case "medium":
		return string(domain.TicketPriorityMedium)
	case "high":
		return string(domain.TicketPriorityHigh)
	}
	return strings.TrimSpace(s)
}
