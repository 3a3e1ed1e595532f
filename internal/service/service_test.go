package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/events"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/resource"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/classifier"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/drafts"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/policy"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/tests/helpers"
)

type stubClassifier struct {
	mu        sync.Mutex
	proposals []*domain.ToolProposal
	err       error
	requests  []classifier.Request
}

func (c *stubClassifier) Classify(_ context.Context, req classifier.Request) (*domain.ToolProposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.proposals) == 0 {
		return &domain.ToolProposal{}, nil
	}
	p := c.proposals[0]
	c.proposals = c.proposals[1:]
	return p, nil
}

func (c *stubClassifier) propose(tool string, args map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proposals = append(c.proposals, &domain.ToolProposal{ToolName: tool, Arguments: args})
}

type apiCall struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeAPI is an in-process resource API. Ticket listings return tickets;
// every other endpoint answers with replies[path] or {}.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	tickets []map[string]any
	replies map[string]any
	srv     *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		tickets: []map[string]any{
			{"ticket_id": 1, "ticket_status": "Open", "priority": "High", "service_person_emp_id": 7},
			{"ticket_id": 2, "ticket_status": "In_Progress", "priority": "Low", "service_person_emp_id": 7},
			{"ticket_id": 3, "ticket_status": "Close", "priority": "High", "service_person_emp_id": 7},
			{"ticket_id": 4, "ticket_status": "Open", "priority": "Medium", "service_person_emp_id": nil},
		},
		replies: map[string]any{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}

		f.mu.Lock()
		f.calls = append(f.calls, call)
		reply, ok := f.replies[r.URL.Path]
		tickets := f.tickets
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case ok:
			_ = json.NewEncoder(w).Encode(reply)
		case r.URL.Path == "/all_tickets" || r.URL.Path == "/my_tickets" || r.URL.Path == "/customer_my_tickets":
			_ = json.NewEncoder(w).Encode(tickets)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) Reply(path string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[path] = v
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	envs []events.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, key string, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.envs = append(p.envs, env)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       *Service
	cls       *stubClassifier
	api       *fakeAPI
	drafts    *drafts.Manager
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	data, err := tools.PolicyData()
	require.NoError(t, err)
	engine, err := policy.NewEngine(ctx, policy.GuardPolicy, data)
	require.NoError(t, err)

	api := newFakeAPI(t)
	cls := &stubClassifier{}
	mgr := drafts.NewManager(drafts.NewMemoryStore(), drafts.DefaultTTL, zap.NewNop())
	pub := &recordingPublisher{}

	svc := New(Deps{
		Store:      helpers.NewTestSQLiteStore(t),
		Classifier: cls,
		Policy:     engine,
		Drafts:     mgr,
		API:        resource.NewClient(api.srv.URL, 5*time.Second),
		Publisher:  pub,
	})
	return &fixture{svc: svc, cls: cls, api: api, drafts: mgr, publisher: pub}
}

func identity(role domain.Role, subject string) domain.Identity {
	return domain.Identity{SubjectID: subject, Role: role, Token: "tok-" + subject}
}

func (f *fixture) chat(t *testing.T, id domain.Identity, prompt string) *domain.ChatResponse {
	t.Helper()
	resp, err := f.svc.Chat(context.Background(), id, domain.ChatRequest{Prompt: prompt})
	require.NoError(t, err)
	return resp
}

func TestChatRoleFetchPartition(t *testing.T) {
	cases := []struct {
		role domain.Role
		path string
	}{
		{domain.RoleAdmin, "/all_tickets"},
		{domain.RoleAgent, "/all_tickets"},
		{domain.RoleServicePerson, "/my_tickets"},
		{domain.RoleCustomer, "/customer_my_tickets"},
	}
	for _, tc := range cases {
		for _, proposed := range []string{tools.CustomerMyTickets, tools.EmpMyTickets} {
			t.Run(string(tc.role)+"/"+proposed, func(t *testing.T) {
				f := newFixture(t)
				f.cls.propose(proposed, nil)

				resp := f.chat(t, identity(tc.role, "7"), "show my tickets")

				assert.Equal(t, "Tickets fetched successfully", resp.Message)
				calls := f.api.Calls()
				require.Len(t, calls, 1)
				assert.Equal(t, http.MethodGet, calls[0].Method)
				assert.Equal(t, tc.path, calls[0].Path)
				assert.Equal(t, "Bearer tok-7", calls[0].Auth)
			})
		}
	}
}

// A status change needs the ticket's current state, and the only verified
// source is the caller's own ticket listing. Denied transitions therefore
// allow that single read-only GET but never a write.
func TestChatStatusTransitionGate(t *testing.T) {
	cases := []struct {
		name     string
		id       domain.Identity
		ticketID any
		to       string
		want     string
	}{
		{"staff on open ticket", identity(domain.RoleAdmin, "1"), 1, "in progress", "You are not authorized to update this ticket while it is Open"},
		{"agent on open ticket", identity(domain.RoleAgent, "2"), float64(4), "Close", "You are not authorized to update this ticket while it is Open"},
		{"unassigned service person", identity(domain.RoleServicePerson, "8"), 1, "In_Progress", "Only the assigned service person can start work on this ticket."},
		{"skip a step", identity(domain.RoleServicePerson, "7"), 1, "closed", "A ticket cannot move from Open to Close."},
		{"reopen", identity(domain.RoleServicePerson, "7"), "#3", "open", "A ticket cannot move from Close to Open."},
		{"unknown ticket", identity(domain.RoleAdmin, "1"), 99, "Close", "Ticket 99 was not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.cls.propose(tools.UpdateTicket, map[string]any{"ticket_id": tc.ticketID, "ticket_status": tc.to})

			resp := f.chat(t, tc.id, "update the ticket")

			assert.Equal(t, tc.want, resp.Message)
			assert.Nil(t, resp.Data)
			for _, c := range f.api.Calls() {
				assert.Equal(t, http.MethodGet, c.Method, "only the read-only listing may be called")
				assert.NotEqual(t, "/update_ticket", c.Path)
			}
		})
	}
}

func TestChatCustomerCannotUpdateTicket(t *testing.T) {
	f := newFixture(t)
	f.cls.propose(tools.UpdateTicket, map[string]any{"ticket_id": 1, "ticket_status": "In_Progress"})

	resp := f.chat(t, identity(domain.RoleCustomer, "c1"), "start my ticket")

	assert.Equal(t, "You are not authorized to update ticket.", resp.Message)
	assert.Empty(t, f.api.Calls())
}

func TestChatAllowedTransitions(t *testing.T) {
	cases := []struct {
		name     string
		id       domain.Identity
		ticketID int
		to       string
		want     string
	}{
		{"assigned service person starts work", identity(domain.RoleServicePerson, "7"), 1, "in_progress", "In_Progress"},
		{"agent closes in-progress ticket", identity(domain.RoleAgent, "2"), 2, "close", "Close"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.cls.propose(tools.UpdateTicket, map[string]any{"ticket_id": tc.ticketID, "ticket_status": tc.to, "emp_id": "999"})

			resp := f.chat(t, tc.id, "update the ticket")

			assert.Equal(t, "Ticket updated successfully", resp.Message)
			calls := f.api.Calls()
			require.Len(t, calls, 2)
			assert.Equal(t, http.MethodGet, calls[0].Method)
			assert.Equal(t, http.MethodPut, calls[1].Method)
			assert.Equal(t, "/update_ticket", calls[1].Path)
			assert.Equal(t, tc.want, calls[1].Body["ticket_status"])
			assert.EqualValues(t, tc.ticketID, calls[1].Body["ticket_id"])
			assert.NotContains(t, calls[1].Body, "emp_id")

			require.Len(t, f.publisher.keys, 1)
			assert.Equal(t, events.TypeTicketUpdated, f.publisher.envs[0].Meta.Type)
		})
	}
}

func TestChatFieldUpdateSkipsLookup(t *testing.T) {
	f := newFixture(t)
	f.cls.propose(tools.UpdateTicket, map[string]any{"ticket_id": 1, "priority": "low"})
	f.api.Reply("/update_ticket", map[string]any{"message": "Ticket 1 updated"})

	resp := f.chat(t, identity(domain.RoleAdmin, "1"), "lower the priority of ticket 1")

	assert.Equal(t, "Ticket 1 updated", resp.Message)
	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/update_ticket", calls[0].Path)
	assert.Equal(t, "Low", calls[0].Body["priority"])
}

func TestChatCreateCustomerDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := identity(domain.RoleAdmin, "1")

	f.cls.propose(tools.CreateCustomer, map[string]any{"name": "Asha", "email": "asha@example.com"})
	resp := f.chat(t, admin, "add customer Asha, asha@example.com")
	assert.Equal(t, "I still need the following details: address, city, company_name, country, mobile_number, state", resp.Message)
	assert.Empty(t, f.api.Calls())

	f.cls.propose(tools.CreateCustomer, map[string]any{"name": "", "city": "Pune", "state": "MH", "user_id": "5"})
	resp = f.chat(t, admin, "she is in Pune, MH")
	assert.Equal(t, "I still need the following details: address, company_name, country, mobile_number", resp.Message)

	d, err := f.drafts.Get(ctx, "1", domain.DraftKindCustomer)
	require.NoError(t, err)
	assert.Equal(t, "Asha", d.Fields["name"])
	assert.NotContains(t, d.Fields, "user_id")

	f.cls.propose(tools.CreateCustomer, map[string]any{
		"mobile_number": "9999999999",
		"company_name":  "Acme",
		"country":       "India",
		"address":       "1 Main St",
	})
	resp = f.chat(t, admin, "mobile 9999999999, Acme, India, 1 Main St")
	assert.Equal(t, "Customer created successfully", resp.Message)
	assert.Nil(t, resp.Data)

	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/customer_registration", calls[0].Path)
	assert.Equal(t, map[string]any{
		"name":          "Asha",
		"email":         "asha@example.com",
		"mobile_number": "9999999999",
		"company_name":  "Acme",
		"city":          "Pune",
		"state":         "MH",
		"country":       "India",
		"address":       "1 Main St",
	}, calls[0].Body)

	_, err = f.drafts.Get(ctx, "1", domain.DraftKindCustomer)
	assert.True(t, errors.Is(err, drafts.ErrNotFound))

	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, "asha@example.com", f.publisher.keys[0])

	f.cls.propose(tools.CreateCustomer, map[string]any{"name": "Ravi"})
	resp = f.chat(t, admin, "add customer Ravi")
	assert.Equal(t, "I still need the following details: address, city, company_name, country, email, mobile_number, state", resp.Message)
}

func TestChatRemoteFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	f.api.Reply("/ticket_registration", map[string]any{"detail": "Customer not found"})
	agent := identity(domain.RoleAgent, "2")

	f.cls.propose(tools.CreateTicket, map[string]any{
		"customer_email":    "nobody@example.com",
		"issue_title":       "Cannot log in",
		"issue_type":        "Access",
		"issue_description": "Password reset mail never arrives",
		"priority":          "high",
	})
	resp := f.chat(t, agent, "raise a ticket for nobody@example.com")

	assert.Equal(t, "Customer not found", resp.Message)
	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "High", calls[0].Body["priority"])
	assert.NotEmpty(t, calls[0].Body["generate_datetime"])

	d, err := f.drafts.Get(context.Background(), "2", domain.DraftKindTicket)
	require.NoError(t, err)
	assert.Equal(t, "nobody@example.com", d.Fields["customer_email"])
	assert.Empty(t, f.publisher.keys)
}

func TestChatIdentityNotForwarded(t *testing.T) {
	f := newFixture(t)
	f.cls.propose(tools.TicketAnalysisPerEmp, map[string]any{"emp_id": "999", "token": "forged", "role": "Admin"})

	resp := f.chat(t, identity(domain.RoleServicePerson, "7"), "how many tickets do I have")

	assert.Equal(t, "Ticket analytics fetched successfully", resp.Message)
	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/ticket_analysis_per_emp", calls[0].Path)
	assert.Equal(t, "emp_id=7", calls[0].Query)
	assert.Equal(t, "Bearer tok-7", calls[0].Auth)
}

func TestChatCustomerCannotListAllTickets(t *testing.T) {
	for _, tool := range []string{tools.FetchAllTickets, tools.FetchTicketsByCustomer} {
		t.Run(tool, func(t *testing.T) {
			f := newFixture(t)
			f.cls.propose(tool, map[string]any{"customer_email": "other@example.com"})

			resp := f.chat(t, identity(domain.RoleCustomer, "c1"), "show all tickets")

			assert.Contains(t, resp.Message, "You are not authorized to")
			assert.Nil(t, resp.Data)
			assert.Empty(t, f.api.Calls())
		})
	}
}

func TestChatTicketLookupObjectReply(t *testing.T) {
	f := newFixture(t)
	f.api.Reply("/fetch_tickets_by_customer", map[string]any{"message": "Customer not found"})
	f.cls.propose(tools.FetchTicketsByCustomer, map[string]any{"customer_email": "nobody@example.com"})

	resp := f.chat(t, identity(domain.RoleAdmin, "1"), "open tickets of nobody@example.com")

	assert.Equal(t, "Customer not found", resp.Message)
	assert.Equal(t, map[string]any{"message": "Customer not found"}, resp.Data)
	calls := f.api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "nobody@example.com", calls[0].Body["customer_email"])
}

func TestChatTicketListWithNonObjectElements(t *testing.T) {
	f := newFixture(t)
	f.api.Reply("/all_tickets", []any{1, 2})
	f.cls.propose(tools.FetchAllTickets, nil)

	resp := f.chat(t, identity(domain.RoleAdmin, "1"), "all tickets")

	assert.Contains(t, resp.Message, SystemErrorPrefix)
	assert.Nil(t, resp.Data)
}

func TestChatFiltersTickets(t *testing.T) {
	f := newFixture(t)
	f.cls.propose(tools.FetchAllTickets, nil)

	resp := f.chat(t, identity(domain.RoleAdmin, "1"), "show HIGH priority open tickets")

	tickets, ok := resp.Data.([]domain.TicketRecord)
	require.True(t, ok, "data is %T", resp.Data)
	require.Len(t, tickets, 1)
	assert.Equal(t, "1", tickets[0].ID())
}

func TestChatFilterWithoutMatchIsEmptyList(t *testing.T) {
	f := newFixture(t)
	f.cls.propose(tools.FetchAllTickets, nil)

	resp := f.chat(t, identity(domain.RoleAdmin, "1"), "low priority closed tickets")

	tickets, ok := resp.Data.([]domain.TicketRecord)
	require.True(t, ok)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestChatDenials(t *testing.T) {
	cases := []struct {
		name string
		role domain.Role
		tool string
		want string
	}{
		{"unknown tool", domain.RoleAdmin, "delete_everything", "This operation is not supported."},
		{"customer lists customers", domain.RoleCustomer, tools.FetchAllCustomers, "You are not authorized to fetch all customers."},
		{"service person creates ticket", domain.RoleServicePerson, tools.CreateTicket, "You are not authorized to create ticket."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.cls.propose(tc.tool, map[string]any{"name": "x"})

			resp := f.chat(t, identity(tc.role, "5"), "do it")

			assert.Equal(t, tc.want, resp.Message)
			assert.Empty(t, f.api.Calls())
		})
	}
}

func TestChatPlainReplyAndErrors(t *testing.T) {
	t.Run("reply is trimmed", func(t *testing.T) {
		f := newFixture(t)
		f.cls.proposals = []*domain.ToolProposal{{Reply: "  Hello there!\n"}}

		resp := f.chat(t, identity(domain.RoleCustomer, "c1"), "hi")

		assert.Equal(t, "Hello there!", resp.Message)
		assert.Nil(t, resp.Data)
		assert.NotEmpty(t, resp.TurnID)
	})

	t.Run("classifier failure", func(t *testing.T) {
		f := newFixture(t)
		f.cls.err = errors.New("model unavailable")

		resp := f.chat(t, identity(domain.RoleCustomer, "c1"), "hi")

		assert.Equal(t, "AI system error: model unavailable", resp.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		f := newFixture(t)
		f.api.srv.Close()
		f.cls.propose(tools.FetchAllCustomers, nil)

		resp := f.chat(t, identity(domain.RoleAdmin, "1"), "list customers")

		assert.Contains(t, resp.Message, SystemErrorPrefix)
	})

	t.Run("missing required field", func(t *testing.T) {
		f := newFixture(t)
		f.cls.propose(tools.FetchTicketsByCustomer, nil)

		resp := f.chat(t, identity(domain.RoleAgent, "2"), "tickets of a customer")

		assert.Equal(t, "I still need the following details: customer_email", resp.Message)
		assert.Empty(t, f.api.Calls())
	})

	t.Run("empty prompt", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Chat(context.Background(), identity(domain.RoleAdmin, "1"), domain.ChatRequest{Prompt: "  "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestChatSessionTranscriptAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := identity(domain.RoleAdmin, "1")

	sess, err := f.svc.CreateSession(ctx, admin, domain.CreateSessionRequest{})
	require.NoError(t, err)

	f.cls.proposals = []*domain.ToolProposal{{Reply: "Hi"}}
	_, err = f.svc.Chat(ctx, admin, domain.ChatRequest{Prompt: "hello", SessionID: sess.SessionID})
	require.NoError(t, err)

	f.cls.propose(tools.FetchAllCustomers, nil)
	f.api.Reply("/all_customers", []any{map[string]any{"email": "a@example.com"}})
	resp, err := f.svc.Chat(ctx, admin, domain.ChatRequest{Prompt: "list customers", SessionID: sess.SessionID})
	require.NoError(t, err)
	assert.Equal(t, "Customers fetched successfully", resp.Message)

	require.Len(t, f.cls.requests, 2)
	assert.Empty(t, f.cls.requests[0].History)
	assert.Equal(t, []classifier.Turn{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "Hi"}}, f.cls.requests[1].History)

	msgs, err := f.svc.GetMessages(ctx, admin, sess.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "user", msgs[2].Role)
	assert.Equal(t, "list customers", msgs[2].Content)
	assert.JSONEq(t, `[{"email":"a@example.com"}]`, string(msgs[3].Data))

	other := identity(domain.RoleAdmin, "2")
	_, err = f.svc.GetMessages(ctx, other, sess.SessionID, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Chat(ctx, other, domain.ChatRequest{Prompt: "hi", SessionID: sess.SessionID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSessionDefaultTitle(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 4, 9, 5, 0, 0, time.FixedZone("IST", 19800)) }
	admin := identity(domain.RoleAdmin, "1")

	resp, err := f.svc.CreateSession(context.Background(), admin, domain.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04 03:35", resp.Title)

	sessions, err := f.svc.ListSessions(context.Background(), admin, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, resp.SessionID, sessions[0].SessionID)

	sessions, err = f.svc.ListSessions(context.Background(), identity(domain.RoleAdmin, "2"), 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSaveMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := identity(domain.RoleAdmin, "1")
	sess, err := f.svc.CreateSession(ctx, admin, domain.CreateSessionRequest{Title: "triage"})
	require.NoError(t, err)

	_, err = f.svc.SaveMessage(ctx, admin, domain.SaveMessageRequest{SessionID: sess.SessionID, Role: "system", Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SaveMessage(ctx, admin, domain.SaveMessageRequest{SessionID: "sess_missing", Role: "user", Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	msg, err := f.svc.SaveMessage(ctx, admin, domain.SaveMessageRequest{SessionID: sess.SessionID, Role: "user", Content: "note"})
	require.NoError(t, err)
	assert.Equal(t, "note", msg.Content)
}

func TestGetTurnEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	agent := identity(domain.RoleAgent, "2")
	f.cls.propose(tools.CreateTicket, map[string]any{"customer_email": "a@example.com"})

	resp := f.chat(t, agent, "raise a ticket for a@example.com")

	evts, err := f.svc.GetTurnEvents(ctx, agent, resp.TurnID, nil)
	require.NoError(t, err)
	var types []domain.EventType
	for _, e := range evts {
		types = append(types, e.Type)
	}
	assert.Equal(t, []domain.EventType{
		domain.EventTypeUserInput,
		domain.EventTypeToolProposed,
		domain.EventTypePolicyDecision,
		domain.EventTypeClarification,
		domain.EventTypeReply,
	}, types)

	evts, err = f.svc.GetTurnEvents(ctx, agent, resp.TurnID, []string{"policy_decision"})
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.JSONEq(t, `{"allow":true}`, string(evts[0].Payload))

	_, err = f.svc.GetTurnEvents(ctx, identity(domain.RoleAgent, "3"), resp.TurnID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTools(t *testing.T) {
	f := newFixture(t)

	resp := f.svc.ListTools(domain.RoleCustomer)
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, tools.CustomerMyTickets, resp.Tools[0].Name)
	assert.Equal(t, []string{}, resp.Tools[0].Required)

	var names []string
	for _, item := range f.svc.ListTools(domain.RoleServicePerson).Tools {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{tools.EmpMyTickets, tools.UpdateTicket, tools.TicketAnalysisPerEmp}, names)
}
