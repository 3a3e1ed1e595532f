package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStatus(t *testing.T) {
	tests := map[string]string{
		"open":        "Open",
		" Open ":      "Open",
		"in progress": "In_Progress",
		"In_Progress": "In_Progress",
		"inprogress":  "In_Progress",
		"in-progress": "In_Progress",
		"close":       "Close",
		"Closed":      "Close",
		"pending":     "pending",
	}
	for in, want := range tests {
		got := CanonicalStatus(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, got, CanonicalStatus(got), "idempotent for %q", in)
	}
}

func TestCanonicalPriority(t *testing.T) {
	assert.Equal(t, "High", CanonicalPriority("high"))
	assert.Equal(t, "Medium", CanonicalPriority(" MEDIUM"))
	assert.Equal(t, "Low", CanonicalPriority("low"))
	assert.Equal(t, "urgent", CanonicalPriority("urgent"))
}
