package domain

import "encoding/json"

// ToolProposal is the classifier's advisory output for one turn. An empty
// ToolName means the classifier replied in plain text.
type ToolProposal struct {
	ToolName  string         `json:"tool_name,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Reply     string         `json:"reply,omitempty"`
}

// HasTool reports whether the proposal names a tool.
func (p *ToolProposal) HasTool() bool {
	return p != nil && p.ToolName != ""
}

// ToolResult is the outcome of one dispatched resource call.
type ToolResult struct {
	// Data is the decoded success payload.
	Data any `json:"data,omitempty"`
	// Detail is set when the resource API answered with {"detail": ...}.
	Detail string `json:"detail,omitempty"`
}

// Failed reports whether the resource API rejected the call.
func (r *ToolResult) Failed() bool {
	return r.Detail != ""
}

// TicketTransition is a requested ticket_status change.
type TicketTransition struct {
	TicketID string       `json:"ticket_id"`
	To       TicketStatus `json:"to"`
}

// GuardDecision is the authorization verdict for one proposal.
type GuardDecision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

// rawJSON marshals v, falling back to null.
func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
