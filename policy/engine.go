package policy

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// GuardPolicy is the authorization policy evaluated before any side effect.
//
//go:embed guard.rego
var GuardPolicy string

// Input is the guard's view of one proposal.
type Input struct {
	Role       domain.Role              `json:"role"`
	ToolName   string                   `json:"tool_name"`
	SubjectID  string                   `json:"subject_id"`
	Transition *domain.TicketTransition `json:"transition,omitempty"`
	Ticket     *TicketState             `json:"ticket,omitempty"`
}

// TicketState is the current state of the ticket a transition targets.
type TicketState struct {
	Status                  string `json:"status"`
	AssignedServicePersonID string `json:"assigned_service_person_id"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content. data
// is mounted under data.catalog.
func NewEngine(ctx context.Context, policyContent string, data map[string]any) (*Engine, error) {
	r := rego.New(
		rego.Query("data.crm.guard.decision"),
		rego.Module("guard.rego", policyContent),
		rego.Store(inmem.NewFromObject(map[string]any{"catalog": data})),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the guard decision for in. A policy that yields nothing
// denies.
func (e *Engine) Evaluate(ctx context.Context, in Input) (domain.GuardDecision, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(in))
	if err != nil {
		return domain.GuardDecision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.GuardDecision{Reason: "This operation is not supported."}, nil
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return domain.GuardDecision{}, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	allow, _ := obj["allow"].(bool)
	reason, _ := obj["reason"].(string)
	return domain.GuardDecision{Allow: allow, Reason: reason}, nil
}
