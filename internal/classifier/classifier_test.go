package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/llm"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

type stubLLM struct {
	out  *llm.Completion
	err  error
	seen *llm.CompletionRequest
}

func (s *stubLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	s.seen = req
	return s.out, s.err
}

func TestClassifyFirstCallWins(t *testing.T) {
	stub := &stubLLM{out: &llm.Completion{Calls: []llm.FunctionCall{
		{Name: tools.FetchAllTickets, Arguments: nil},
		{Name: tools.UpdateTicket, Arguments: map[string]any{"ticket_id": 3}},
	}}}
	c := New(stub)

	p, err := c.Classify(context.Background(), Request{
		Role:      domain.RoleAdmin,
		History:   []Turn{{Role: "user", Content: "hi"}, {Role: "assistant", Content: ""}, {Role: "assistant", Content: "Hello"}},
		Utterance: "all tickets",
	})
	require.NoError(t, err)
	assert.Equal(t, tools.FetchAllTickets, p.ToolName)
	assert.NotNil(t, p.Arguments)

	require.NotNil(t, stub.seen)
	assert.Len(t, stub.seen.Messages, 3)
	assert.Equal(t, "all tickets", stub.seen.Messages[2].Content)
	assert.Len(t, stub.seen.Tools, len(tools.All()))
	assert.Contains(t, stub.seen.System, "The signed-in user's role is Admin")
}

func TestClassifyPlainReply(t *testing.T) {
	c := New(&stubLLM{out: &llm.Completion{Text: "  Hello! How can I help?\n"}})
	p, err := c.Classify(context.Background(), Request{Role: domain.RoleCustomer, Utterance: "hey"})
	require.NoError(t, err)
	assert.False(t, p.HasTool())
	assert.Equal(t, "Hello! How can I help?", p.Reply)
}

func TestClassifyError(t *testing.T) {
	boom := errors.New("connection refused")
	c := New(&stubLLM{err: boom})
	_, err := c.Classify(context.Background(), Request{Role: domain.RoleCustomer, Utterance: "hey"})
	assert.ErrorIs(t, err, boom)
}

func TestInstructionRendersCatalog(t *testing.T) {
	text, err := Instruction(domain.RoleServicePerson)
	require.NoError(t, err)
	for _, s := range tools.All() {
		assert.Contains(t, text, "- "+s.Name+":")
	}
	assert.Contains(t, text, "- ServicePerson: emp_my_tickets")
	assert.Contains(t, text, "- Customer: customer_my_tickets")
	assert.Contains(t, text, "Open -> In_Progress -> Close")
	assert.Contains(t, text, "Required: name, email, mobile_number, company_name, city, state, country, address.")
}

func TestFunctionDeclsRequiredOnlyForNonDraftTools(t *testing.T) {
	byName := map[string]llm.FunctionDecl{}
	for _, d := range FunctionDecls() {
		byName[d.Name] = d
	}
	assert.Empty(t, byName[tools.CreateCustomer].Parameters.Required)
	assert.Equal(t, []string{"ticket_id"}, byName[tools.UpdateTicket].Parameters.Required)
	assert.Equal(t, "integer", byName[tools.UpdateTicket].Parameters.Properties["ticket_id"].Type)
}

func TestMockBackendEndToEnd(t *testing.T) {
	c := New(llm.NewMockClient())
	p, err := c.Classify(context.Background(), Request{Role: domain.RoleServicePerson, Utterance: "move ticket 9 to in progress"})
	require.NoError(t, err)
	assert.Equal(t, tools.UpdateTicket, p.ToolName)
	assert.Equal(t, "9", p.Arguments["ticket_id"])
	assert.Equal(t, "In_Progress", p.Arguments["ticket_status"])
}
