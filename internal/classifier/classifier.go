// Package classifier turns an utterance into at most one advisory tool
// proposal using a function-calling LLM.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/llm"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string // user, assistant
	Content string
}

// Request is the classifier input for one utterance.
type Request struct {
	Role      domain.Role
	History   []Turn
	Utterance string
}

// Classifier proposes a tool for an utterance. Proposals are advisory: the
// router re-checks every one of them.
type Classifier interface {
	Classify(ctx context.Context, req Request) (*domain.ToolProposal, error)
}

// LLMClassifier classifies with an llm.LLMClient.
type LLMClassifier struct {
	client llm.LLMClient
	decls  []llm.FunctionDecl
}

var _ Classifier = (*LLMClassifier)(nil)

// New creates a classifier offering the whole catalog to client.
func New(client llm.LLMClient) *LLMClassifier {
	return &LLMClassifier{client: client, decls: FunctionDecls()}
}

// Classify asks the model for one proposal. Only the first tool call is used.
func (c *LLMClassifier) Classify(ctx context.Context, req Request) (*domain.ToolProposal, error) {
	instruction, err := Instruction(req.Role)
	if err != nil {
		return nil, err
	}

	msgs := make([]llm.Message, 0, len(req.History)+1)
	for _, t := range req.History {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: req.Utterance})

	out, err := c.client.Complete(ctx, &llm.CompletionRequest{
		System:   instruction,
		Messages: msgs,
		Tools:    c.decls,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return proposalFrom(out), nil
}

func proposalFrom(out *llm.Completion) *domain.ToolProposal {
	if len(out.Calls) > 0 {
		first := out.Calls[0]
		args := first.Arguments
		if args == nil {
			args = map[string]any{}
		}
		return &domain.ToolProposal{ToolName: first.Name, Arguments: args}
	}
	return &domain.ToolProposal{Reply: strings.TrimSpace(out.Text)}
}

// FunctionDecls renders the catalog as function declarations.
func FunctionDecls() []llm.FunctionDecl {
	all := tools.All()
	decls := make([]llm.FunctionDecl, 0, len(all))
	for _, s := range all {
		params := &llm.Schema{Type: "object", Properties: map[string]*llm.Schema{}}
		for _, f := range s.Fields {
			params.Properties[f.Name] = &llm.Schema{
				Type:        string(f.Type),
				Description: f.Description,
				Enum:        f.Enum,
			}
		}
		// Draft tools accept partial arguments; the router asks for the rest.
		if s.DraftKind == "" {
			params.Required = s.Required()
		}
		decls = append(decls, llm.FunctionDecl{Name: s.Name, Description: s.Description, Parameters: params})
	}
	return decls
}
