package tools

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// Tool names. The set is closed: the classifier prompt, the policy data and
// the dispatcher are all derived from catalog below.
const (
	FetchAllCustomers      = "fetch_all_customers"
	FetchCustomerByEmail   = "fetch_customer_email"
	CreateCustomer         = "create_customer"
	UpdateCustomer         = "update_customer"
	CreateTicket           = "create_ticket"
	CustomerMyTickets      = "customer_my_tickets"
	EmpMyTickets           = "emp_my_tickets"
	FetchAllTickets        = "fetch_all_tickets"
	FetchTicketsByCustomer = "fetch_tickets_by_customer"
	UpdateTicket           = "update_ticket"
	TicketAnalysisPerEmp   = "ticket_analysis_per_emp"
)

// FieldType is the JSON type of a tool argument.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
)

// Field declares one tool argument.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Enum        []string
	Required    bool
}

// Schema declares one supported operation.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
	Roles       []domain.Role
	// DraftKind is set for creation flows that accumulate fields across turns.
	DraftKind      domain.DraftKind
	Result         domain.ResultKind
	SuccessMessage string
}

var (
	staffRoles = []domain.Role{domain.RoleAdmin, domain.RoleAgent}
	employees  = []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleServicePerson}
)

var priorityEnum = []string{string(domain.TicketPriorityLow), string(domain.TicketPriorityMedium), string(domain.TicketPriorityHigh)}

var statusEnum = []string{string(domain.TicketStatusOpen), string(domain.TicketStatusInProgress), string(domain.TicketStatusClose)}

var catalog = []Schema{
	{
		Name:           FetchAllCustomers,
		Description:    "Fetch all customers.",
		Roles:          staffRoles,
		Result:         domain.ResultKindData,
		SuccessMessage: "Customers fetched successfully",
	},
	{
		Name:        FetchCustomerByEmail,
		Description: "Fetch one customer by email address.",
		Fields: []Field{
			{Name: "email", Type: FieldString, Description: "Customer email address", Required: true},
		},
		Roles:          staffRoles,
		Result:         domain.ResultKindData,
		SuccessMessage: "Customer fetched successfully",
	},
	{
		Name:        CreateCustomer,
		Description: "Create a new customer. All fields are mandatory and may be supplied over several messages.",
		Fields: []Field{
			{Name: "name", Type: FieldString, Description: "Customer full name", Required: true},
			{Name: "email", Type: FieldString, Description: "Customer email address", Required: true},
			{Name: "mobile_number", Type: FieldString, Description: "Mobile number", Required: true},
			{Name: "company_name", Type: FieldString, Description: "Company name", Required: true},
			{Name: "city", Type: FieldString, Description: "City", Required: true},
			{Name: "state", Type: FieldString, Description: "State", Required: true},
			{Name: "country", Type: FieldString, Description: "Country", Required: true},
			{Name: "address", Type: FieldString, Description: "Street address", Required: true},
		},
		Roles:          staffRoles,
		DraftKind:      domain.DraftKindCustomer,
		Result:         domain.ResultKindAck,
		SuccessMessage: "Customer created successfully",
	},
	{
		Name:        UpdateCustomer,
		Description: "Update an existing customer identified by email. Only supplied fields change.",
		Fields: []Field{
			{Name: "email", Type: FieldString, Description: "Email of the customer to update", Required: true},
			{Name: "name", Type: FieldString, Description: "New name"},
			{Name: "mobile_number", Type: FieldString, Description: "New mobile number"},
			{Name: "company_name", Type: FieldString, Description: "New company name"},
			{Name: "city", Type: FieldString, Description: "New city"},
			{Name: "state", Type: FieldString, Description: "New state"},
			{Name: "country", Type: FieldString, Description: "New country"},
			{Name: "address", Type: FieldString, Description: "New address"},
		},
		Roles:          staffRoles,
		Result:         domain.ResultKindAck,
		SuccessMessage: "Customer updated successfully",
	},
	{
		Name:        CreateTicket,
		Description: "Create a support ticket for a customer. Infer title, type and priority from the described problem when they are not given.",
		Fields: []Field{
			{Name: "customer_email", Type: FieldString, Description: "Email of the customer raising the ticket", Required: true},
			{Name: "issue_title", Type: FieldString, Description: "Short summary, at most 12 words", Required: true},
			{Name: "issue_type", Type: FieldString, Description: "Technical, Billing, Access, Bug, Feature Request or General", Required: true},
			{Name: "issue_description", Type: FieldString, Description: "Detailed explanation of the problem", Required: true},
			{Name: "priority", Type: FieldString, Description: "Low, Medium or High", Enum: priorityEnum, Required: true},
		},
		Roles:          staffRoles,
		DraftKind:      domain.DraftKindTicket,
		Result:         domain.ResultKindAck,
		SuccessMessage: "Ticket created successfully",
	},
	{
		Name:           CustomerMyTickets,
		Description:    "Fetch the tickets raised by the signed-in customer.",
		Roles:          []domain.Role{domain.RoleCustomer},
		Result:         domain.ResultKindTickets,
		SuccessMessage: "Tickets fetched successfully",
	},
	{
		Name:           EmpMyTickets,
		Description:    "Fetch the tickets assigned to the signed-in service person.",
		Roles:          []domain.Role{domain.RoleServicePerson},
		Result:         domain.ResultKindTickets,
		SuccessMessage: "Tickets fetched successfully",
	},
	{
		Name:           FetchAllTickets,
		Description:    "Fetch all tickets in the system.",
		Roles:          staffRoles,
		Result:         domain.ResultKindTickets,
		SuccessMessage: "Tickets fetched successfully",
	},
	{
		Name:        FetchTicketsByCustomer,
		Description: "Fetch the tickets of one customer identified by email.",
		Fields: []Field{
			{Name: "customer_email", Type: FieldString, Description: "Customer email address", Required: true},
		},
		Roles:          staffRoles,
		Result:         domain.ResultKindTickets,
		SuccessMessage: "Tickets fetched successfully",
	},
	{
		Name:        UpdateTicket,
		Description: "Update an existing ticket: type, description, priority, reason or status.",
		Fields: []Field{
			{Name: "ticket_id", Type: FieldInteger, Description: "Ticket number; never guess it", Required: true},
			{Name: "issue_type", Type: FieldString, Description: "New issue type"},
			{Name: "issue_description", Type: FieldString, Description: "New description"},
			{Name: "priority", Type: FieldString, Description: "Low, Medium or High", Enum: priorityEnum},
			{Name: "reason", Type: FieldString, Description: "Reason for the change"},
			{Name: "ticket_status", Type: FieldString, Description: "Open, In_Progress or Close", Enum: statusEnum},
		},
		Roles:          employees,
		Result:         domain.ResultKindAck,
		SuccessMessage: "Ticket updated successfully",
	},
	{
		Name:           TicketAnalysisPerEmp,
		Description:    "Fetch ticket counts (total, open, in progress, closed) for the signed-in employee.",
		Roles:          employees,
		Result:         domain.ResultKindData,
		SuccessMessage: "Ticket analytics fetched successfully",
	},
}

var byName = func() map[string]Schema {
	m := make(map[string]Schema, len(catalog))
	for _, s := range catalog {
		m[s.Name] = s
	}
	return m
}()

// All returns the catalog in declaration order.
func All() []Schema {
	out := make([]Schema, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the schema for name.
func Lookup(name string) (Schema, bool) {
	s, ok := byName[name]
	return s, ok
}

// Allows reports whether role may invoke the tool.
func (s Schema) Allows(role domain.Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Required returns the required argument names in declaration order.
func (s Schema) Required() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Optional returns the optional argument names in declaration order.
func (s Schema) Optional() []string {
	var out []string
	for _, f := range s.Fields {
		if !f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Field returns the declaration for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Missing returns the sorted required names absent from args.
func (s Schema) Missing(args map[string]any) []string {
	var missing []string
	for _, name := range s.Required() {
		if _, ok := args[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// ClarificationPrefix starts every missing-fields prompt.
const ClarificationPrefix = "I still need the following details: "

// Clarification renders the prompt for missing field names.
func Clarification(missing []string) string {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return ClarificationPrefix + strings.Join(sorted, ", ")
}

// baseFetch is the intent table for "my tickets" and for every filtered
// ticket listing.
var baseFetch = map[domain.Role]string{
	domain.RoleAdmin:         FetchAllTickets,
	domain.RoleAgent:         FetchAllTickets,
	domain.RoleServicePerson: EmpMyTickets,
	domain.RoleCustomer:      CustomerMyTickets,
}

// BaseFetch returns the ticket listing tool that belongs to role.
func BaseFetch(role domain.Role) string {
	return baseFetch[role]
}

// Resolve rewrites a "my tickets" proposal to the caller's own base fetch.
// The phrase always refers to the authenticated user, so the classifier
// cannot pick another role's listing. Other tools are returned unchanged.
func Resolve(role domain.Role, name string) string {
	switch name {
	case CustomerMyTickets, EmpMyTickets:
		if base := BaseFetch(role); base != "" {
			return base
		}
	}
	return name
}

// transitions lists the forward moves allowed from each ticket status.
var transitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusClose},
	domain.TicketStatusClose:      {},
}

// NextStatuses returns the statuses reachable in one step from s.
func NextStatuses(s domain.TicketStatus) []domain.TicketStatus {
	return append([]domain.TicketStatus(nil), transitions[s]...)
}

// PolicyData renders the catalog as plain JSON data for the policy engine.
func PolicyData() (map[string]any, error) {
	type toolData struct {
		Roles   []domain.Role `json:"roles"`
		Summary string        `json:"summary"`
	}
	doc := struct {
		Tools       map[string]toolData                           `json:"tools"`
		Transitions map[domain.TicketStatus][]domain.TicketStatus `json:"transitions"`
		BaseFetch   map[domain.Role]string                        `json:"base_fetch"`
	}{
		Tools:       make(map[string]toolData, len(catalog)),
		Transitions: transitions,
		BaseFetch:   baseFetch,
	}
	for _, s := range catalog {
		doc.Tools[s.Name] = toolData{Roles: s.Roles, Summary: strings.ReplaceAll(s.Name, "_", " ")}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
