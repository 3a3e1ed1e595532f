package domain

import "encoding/json"

// ChatRequest is one user utterance sent to the router.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the uniform envelope returned for every turn.
type ChatResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	TurnID  string `json:"turn_id,omitempty"`
}

// CreateSessionRequest creates a chat session.
type CreateSessionRequest struct {
	Title string `json:"title,omitempty"`
}

// CreateSessionResponse identifies the created session.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// SaveMessageRequest persists a transcript entry.
type SaveMessageRequest struct {
	SessionID string          `json:"session_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ToolListItem describes one operation in the catalog listing.
type ToolListItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
	Roles       []Role   `json:"roles"`
	DraftKind   string   `json:"draft_kind,omitempty"`
}

// ListToolsResponse is the catalog listing.
type ListToolsResponse struct {
	Tools []ToolListItem `json:"tools"`
}
