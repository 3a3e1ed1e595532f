package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/events"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/filter"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

// shapeResult builds the success envelope for a tool's result kind.
func (s *Service) shapeResult(ctx context.Context, t *turn, schema tools.Schema, data any) *domain.ChatResponse {
	switch schema.Result {
	case domain.ResultKindAck:
		msg := schema.SuccessMessage
		if obj, ok := data.(map[string]any); ok {
			if m, ok := obj["message"].(string); ok && m != "" {
				msg = m
			}
		}
		return &domain.ChatResponse{Message: msg}

	case domain.ResultKindTickets:
		// A lookup that matched nothing may answer 200 with an object such as
		// {"message": "Customer not found"}; it is passed through unfiltered.
		if obj, ok := data.(map[string]any); ok {
			msg := schema.SuccessMessage
			if m, ok := obj["message"].(string); ok && m != "" {
				msg = m
			}
			return &domain.ChatResponse{Message: msg, Data: obj}
		}
		tickets, err := domain.TicketsFromData(data)
		if err != nil {
			return s.systemError(ctx, t, err)
		}
		return &domain.ChatResponse{Message: schema.SuccessMessage, Data: filter.Tickets(tickets, t.utterance)}

	default:
		return &domain.ChatResponse{Message: schema.SuccessMessage, Data: data}
	}
}

// publishSync emits the CRM-sync event for a successful write. Publish
// failures are logged; the turn already succeeded.
func (s *Service) publishSync(ctx context.Context, t *turn, schema tools.Schema, args map[string]any, data any) {
	var typ, key string
	switch schema.Name {
	case tools.CreateCustomer:
		typ = events.TypeCustomerCreated
		key, _ = args["email"].(string)
	case tools.CreateTicket:
		typ = events.TypeTicketCreated
		key, _ = args["customer_email"].(string)
	case tools.UpdateTicket:
		typ = events.TypeTicketUpdated
		if id, ok := args["ticket_id"]; ok {
			key = domain.TicketRecord{"ticket_id": id}.ID()
		}
	default:
		return
	}

	payload := map[string]any{
		"arguments":  args,
		"result":     data,
		"subject_id": t.identity.SubjectID,
	}
	if err := s.publisher.Publish(ctx, key, events.NewEnvelope(typ, t.id, payload)); err != nil {
		s.logger.Warn("failed to publish sync event",
			zap.String("turn_id", t.id),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}
