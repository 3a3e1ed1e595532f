// Package llm provides an abstraction over function-calling LLM backends.
package llm

import "context"

// LLMClient defines the interface for LLM API operations.
type LLMClient interface {
	// Complete runs one non-streaming completion offering tools to the model.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}

// Message is one prior conversation turn.
type Message struct {
	Role    string // user, assistant
	Content string
}

// FunctionDecl declares a callable tool. Parameters is a JSON schema object.
type FunctionDecl struct {
	Name        string
	Description string
	Parameters  *Schema
}

// Schema is the subset of JSON schema used for tool parameters.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// CompletionRequest is a backend-neutral completion request.
type CompletionRequest struct {
	System   string
	Messages []Message
	Tools    []FunctionDecl
}

// FunctionCall is one tool call chosen by the model.
type FunctionCall struct {
	Name      string
	Arguments map[string]any
}

// Completion is the model's answer: plain text and/or tool calls, in the
// order the model produced them.
type Completion struct {
	Text  string
	Calls []FunctionCall
}

// Ensure the backends implement LLMClient.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*GeminiClient)(nil)
	_ LLMClient = (*MockClient)(nil)
)
