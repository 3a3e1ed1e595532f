package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/resource"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// now is replaced in tests.
var now = time.Now

func init() {
	MustRegister(FetchAllCustomers, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodGet, Path: "/all_customers", Token: id.Token})
	})
	MustRegister(FetchCustomerByEmail, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		email := fmt.Sprint(args["email"])
		return api.Do(ctx, resource.Request{Method: http.MethodGet, Path: "/hubspot/customer_email/" + url.PathEscape(email), Token: id.Token})
	})
	MustRegister(CreateCustomer, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodPost, Path: "/customer_registration", Token: id.Token, Body: args})
	})
	MustRegister(UpdateCustomer, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodPut, Path: "/update_customer", Token: id.Token, Body: args})
	})
	MustRegister(CreateTicket, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		body := make(map[string]any, len(args)+1)
		for k, v := range args {
			body[k] = v
		}
		body["generate_datetime"] = now().UTC().Format("2006-01-02T15:04:05.000000")
		return api.Do(ctx, resource.Request{Method: http.MethodPost, Path: "/ticket_registration", Token: id.Token, Body: body})
	})
	MustRegister(CustomerMyTickets, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodGet, Path: "/customer_my_tickets", Token: id.Token})
	})
	MustRegister(EmpMyTickets, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodGet, Path: "/my_tickets", Token: id.Token})
	})
	MustRegister(FetchAllTickets, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodGet, Path: "/all_tickets", Token: id.Token})
	})
	MustRegister(FetchTicketsByCustomer, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{
			Method: http.MethodPost,
			Path:   "/fetch_tickets_by_customer",
			Token:  id.Token,
			Body:   map[string]any{"customer_email": args["customer_email"]},
		})
	})
	MustRegister(UpdateTicket, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		return api.Do(ctx, resource.Request{Method: http.MethodPut, Path: "/update_ticket", Token: id.Token, Body: args})
	})
	MustRegister(TicketAnalysisPerEmp, func(ctx context.Context, api Caller, args map[string]any, id domain.Identity) (any, error) {
		// The employee is always the caller; a proposed emp_id never reaches here.
		return api.Do(ctx, resource.Request{
			Method: http.MethodPost,
			Path:   "/ticket_analysis_per_emp",
			Token:  id.Token,
			Query:  url.Values{"emp_id": {id.SubjectID}},
		})
	})
}
