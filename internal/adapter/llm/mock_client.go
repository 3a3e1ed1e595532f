package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MockClient is a deterministic keyword-driven LLMClient for local runs and
// tests. It only proposes tools that were offered in the request.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var (
	emailRe    = regexp.MustCompile(`[\w.+-]+@[\w-]+(\.[\w-]+)+`)
	ticketIDRe = regexp.MustCompile(`(?:ticket\s*(?:id|no\.?|number)?\s*#?\s*|#)(\d+)`)
	pairRe     = regexp.MustCompile(`([a-z_]+)\s*[:=]\s*([^,;\n]+)`)
)

// mockRule maps keywords in the utterance to a tool.
type mockRule struct {
	tool  string
	match func(text string) bool
}

func hasAll(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if !strings.Contains(text, w) {
				return false
			}
		}
		return true
	}
}

func hasAny(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// Checked in order; the first offered match wins.
var mockRules = []mockRule{
	{tool: "ticket_analysis_per_emp", match: hasAny("analysis", "analytics", "stats", "statistics")},
	{tool: "update_ticket", match: func(t string) bool {
		return ticketIDRe.MatchString(t) && hasAny("update", "change", "set", "mark", "move", "close", "start")(t)
	}},
	{tool: "create_ticket", match: func(t string) bool {
		return hasAny("create", "raise", "open a", "new")(t) && strings.Contains(t, "ticket")
	}},
	{tool: "create_customer", match: func(t string) bool {
		return hasAny("create", "add", "register", "new")(t) && strings.Contains(t, "customer")
	}},
	{tool: "update_customer", match: hasAll("update", "customer")},
	{tool: "fetch_all_customers", match: hasAny("all customers", "list customers", "customer list")},
	{tool: "fetch_tickets_by_customer", match: func(t string) bool {
		return strings.Contains(t, "ticket") && emailRe.MatchString(t)
	}},
	{tool: "fetch_customer_email", match: func(t string) bool {
		return strings.Contains(t, "customer") && emailRe.MatchString(t)
	}},
	{tool: "fetch_all_tickets", match: hasAll("all tickets")},
	{tool: "customer_my_tickets", match: hasAny("ticket")},
}

// Complete proposes at most one tool based on the last user message.
func (m *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			last = req.Messages[i].Content
			break
		}
	}
	if last == "" {
		return &Completion{Text: "[MOCK] How can I help you today?"}, nil
	}

	offered := make(map[string]FunctionDecl, len(req.Tools))
	for _, t := range req.Tools {
		offered[t.Name] = t
	}

	text := strings.ToLower(last)
	for _, r := range mockRules {
		decl, ok := offered[r.tool]
		if !ok || !r.match(text) {
			continue
		}
		return &Completion{Calls: []FunctionCall{{Name: r.tool, Arguments: mockArguments(decl, last, text)}}}, nil
	}

	return &Completion{Text: fmt.Sprintf("[MOCK] Received your message: %q.", truncate(last, 100))}, nil
}

// mockArguments extracts "key: value" pairs for declared parameters plus the
// values that can be recognised without a label.
func mockArguments(decl FunctionDecl, original, lower string) map[string]any {
	args := map[string]any{}
	props := map[string]*Schema{}
	if decl.Parameters != nil {
		props = decl.Parameters.Properties
	}

	for _, m := range pairRe.FindAllStringSubmatchIndex(lower, -1) {
		key := lower[m[2]:m[3]]
		if _, ok := props[key]; ok {
			args[key] = strings.TrimSpace(original[m[4]:m[5]])
		}
	}

	if email := emailRe.FindString(original); email != "" {
		for _, key := range []string{"email", "customer_email"} {
			if _, ok := props[key]; ok {
				if _, set := args[key]; !set {
					args[key] = email
				}
			}
		}
	}
	if _, ok := props["ticket_id"]; ok {
		if sm := ticketIDRe.FindStringSubmatch(lower); sm != nil {
			args["ticket_id"] = sm[1]
		}
	}
	if _, ok := props["ticket_status"]; ok {
		if _, set := args["ticket_status"]; !set {
			switch {
			case strings.Contains(lower, "progress") || strings.Contains(lower, "start"):
				args["ticket_status"] = "In_Progress"
			case strings.Contains(lower, "close"):
				args["ticket_status"] = "Close"
			case strings.Contains(lower, "reopen"):
				args["ticket_status"] = "Open"
			}
		}
	}
	if _, ok := props["priority"]; ok {
		if _, set := args["priority"]; !set {
			for _, p := range []string{"high", "medium", "low"} {
				if strings.Contains(lower, p) {
					args["priority"] = p
					break
				}
			}
		}
	}
	return args
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
