package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/resource"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// ErrUnknownTool is returned for a tool name outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Caller performs one resource API request.
type Caller interface {
	Do(ctx context.Context, req resource.Request) (any, error)
}

// HandlerFunc turns sanitized arguments and the verified identity into one
// resource API call.
type HandlerFunc func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error)

// Registry stores tool handlers keyed by tool name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// DefaultRegistry is the shared registry used by the router.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty tool handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a new handler for a tool name. Only catalog tools can be
// registered.
func (r *Registry) Register(toolName string, h HandlerFunc) error {
	if toolName == "" {
		return fmt.Errorf("tool name is required")
	}
	if h == nil {
		return fmt.Errorf("handler is required")
	}
	if _, ok := Lookup(toolName); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[toolName]; exists {
		return fmt.Errorf("handler already registered for %s", toolName)
	}
	r.handlers[toolName] = h
	return nil
}

// Has reports whether a handler is registered for toolName.
func (r *Registry) Has(toolName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[toolName]
	return ok
}

// Execute sanitizes args against the tool schema, injects identity, runs the
// handler and classifies the response. A response carrying a "detail" key is
// a failure reported through ToolResult.Detail; transport errors are returned.
func (r *Registry) Execute(ctx context.Context, api Caller, toolName string, args map[string]any, id domain.Identity) (*domain.ToolResult, error) {
	schema, ok := Lookup(toolName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}
	r.mu.RLock()
	h := r.handlers[toolName]
	r.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("no handler registered for %s", toolName)
	}

	clean := Sanitize(schema, args)
	if missing := schema.Missing(clean); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required fields %v", toolName, missing)
	}

	raw, err := h(ctx, api, clean, id)
	if err != nil {
		return nil, err
	}
	return classify(raw), nil
}

// Register adds a handler to the default registry.
func Register(toolName string, h HandlerFunc) error {
	return DefaultRegistry.Register(toolName, h)
}

// MustRegister adds a handler to the default registry or panics.
func MustRegister(toolName string, h HandlerFunc) {
	if err := Register(toolName, h); err != nil {
		panic(err)
	}
}

// Sanitize keeps only declared, non-empty arguments, drops every identity
// field and canonicalizes status and priority spellings.
func Sanitize(schema Schema, args map[string]any) map[string]any {
	clean := make(map[string]any, len(args))
	for k, v := range args {
		if domain.IsIdentityField(k) || IsEmpty(v) {
			continue
		}
		f, declared := schema.Field(k)
		if !declared {
			continue
		}
		if f.Type == FieldInteger {
			n, ok := toInt(v)
			if !ok {
				continue
			}
			v = n
		}
		switch k {
		case "ticket_status":
			if s, ok := v.(string); ok {
				v = CanonicalStatus(s)
			}
		case "priority":
			if s, ok := v.(string); ok {
				v = CanonicalPriority(s)
			}
		}
		clean[k] = v
	}
	return clean
}

// IsEmpty reports whether a proposed value carries no information.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return isBlank(x)
	case []any:
		return len(x) == 0
	}
	return false
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(x), "#"), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func classify(raw any) *domain.ToolResult {
	if obj, ok := raw.(map[string]any); ok {
		if detail, has := obj["detail"]; has && detail != nil {
			return &domain.ToolResult{Detail: detailString(detail)}
		}
	}
	return &domain.ToolResult{Data: raw}
}

func detailString(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case map[string]any:
		if msg, ok := d["message"].(string); ok {
			return msg
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
