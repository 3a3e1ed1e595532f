package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/classifier"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	store "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/repository"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/policy"
)

// SystemErrorPrefix starts every transport or internal failure message.
const SystemErrorPrefix = "AI system error: "

// turn carries the state of one router invocation.
type turn struct {
	id        string
	sessionID string
	identity  domain.Identity
	utterance string

	proposed string
	resolved string
	decision *domain.GuardDecision
	outcome  string
}

// Chat runs one router turn: classify, resolve, guard, merge drafts,
// dispatch and post-filter. Every outcome, including remote and transport
// failures, is returned as an envelope; errors are returned only for
// requests that cannot start a turn.
func (s *Service) Chat(ctx context.Context, id domain.Identity, req domain.ChatRequest) (*domain.ChatResponse, error) {
	utterance := strings.TrimSpace(req.Prompt)
	if utterance == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if !id.Role.Valid() || id.SubjectID == "" {
		return nil, fmt.Errorf("%w: identity is incomplete", ErrInvalidInput)
	}

	t := &turn{
		id:        "turn_" + uuid.New().String(),
		sessionID: req.SessionID,
		identity:  id,
		utterance: utterance,
	}

	var history []classifier.Turn
	if t.sessionID != "" {
		if _, err := s.ownedSession(ctx, id, t.sessionID); err != nil {
			return nil, err
		}
		msgs, err := s.store.GetRecentMessages(ctx, t.sessionID, s.config.HistoryTurns)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		for _, m := range msgs {
			history = append(history, classifier.Turn{Role: m.Role, Content: m.Content})
		}
		s.appendTranscript(ctx, t, "user", utterance, nil)
	}

	s.recordEvent(ctx, t, domain.EventTypeUserInput, userInputPayload{SubjectID: id.SubjectID, Role: id.Role, Utterance: utterance})

	resp := s.route(ctx, t, history)
	resp.TurnID = t.id

	s.recordEvent(ctx, t, domain.EventTypeReply, map[string]any{"message": resp.Message, "outcome": t.outcome})
	if t.sessionID != "" {
		s.appendTranscript(ctx, t, "assistant", resp.Message, resp.Data)
	}

	fields := []zap.Field{
		zap.String("turn_id", t.id),
		zap.String("subject_id", id.SubjectID),
		zap.String("role", string(id.Role)),
		zap.String("proposed_tool", t.proposed),
		zap.String("resolved_tool", t.resolved),
		zap.String("outcome", t.outcome),
	}
	if t.decision != nil {
		fields = append(fields, zap.Bool("allow", t.decision.Allow))
	}
	s.logger.Info("turn complete", fields...)

	return resp, nil
}

func (s *Service) route(ctx context.Context, t *turn, history []classifier.Turn) *domain.ChatResponse {
	id := t.identity

	proposal, err := s.classifier.Classify(ctx, classifier.Request{Role: id.Role, History: history, Utterance: t.utterance})
	if err != nil {
		return s.systemError(ctx, t, err)
	}
	if !proposal.HasTool() {
		t.outcome = "reply"
		if proposal == nil {
			return &domain.ChatResponse{}
		}
		return &domain.ChatResponse{Message: strings.TrimSpace(proposal.Reply)}
	}

	t.proposed = proposal.ToolName
	args := withoutIdentity(proposal.Arguments)
	s.recordEvent(ctx, t, domain.EventTypeToolProposed, map[string]any{"tool_name": proposal.ToolName, "arguments": args})

	t.resolved = tools.Resolve(id.Role, proposal.ToolName)
	if t.resolved != t.proposed {
		s.recordEvent(ctx, t, domain.EventTypeToolResolved, map[string]any{"from": t.proposed, "to": t.resolved})
	}

	decision, err := s.authorize(ctx, t, args)
	if err != nil {
		return s.systemError(ctx, t, err)
	}
	t.decision = &decision
	s.recordEvent(ctx, t, domain.EventTypePolicyDecision, decision)
	if !decision.Allow {
		t.outcome = "denied"
		return &domain.ChatResponse{Message: decision.Reason}
	}

	schema, _ := tools.Lookup(t.resolved)
	if schema.DraftKind != "" {
		return s.runDraft(ctx, t, schema, args)
	}

	clean := tools.Sanitize(schema, args)
	if missing := schema.Missing(clean); len(missing) > 0 {
		return s.clarify(ctx, t, missing)
	}
	return s.dispatch(ctx, t, schema, clean)
}

// authorize evaluates the guard. For a ticket status change the current
// ticket state is looked up first.
func (s *Service) authorize(ctx context.Context, t *turn, args map[string]any) (domain.GuardDecision, error) {
	in := policy.Input{
		Role:      t.identity.Role,
		ToolName:  t.resolved,
		SubjectID: t.identity.SubjectID,
	}

	schema, known := tools.Lookup(t.resolved)
	if known && schema.Allows(t.identity.Role) {
		if tr := statusTransition(schema, args); tr != nil {
			in.Transition = tr
			state, err := s.tickets.Find(ctx, t.identity, tr.TicketID)
			if err != nil {
				return domain.GuardDecision{}, err
			}
			in.Ticket = state
		}
	}

	return s.policy.Evaluate(ctx, in)
}

// runDraft merges args into the caller's draft and dispatches once the draft
// is complete. The key lock is held until the outcome has been applied.
func (s *Service) runDraft(ctx context.Context, t *turn, schema tools.Schema, args map[string]any) *domain.ChatResponse {
	subject := t.identity.SubjectID
	unlock := s.drafts.Lock(subject, schema.DraftKind)
	defer unlock()

	draft, missing, err := s.drafts.Merge(ctx, subject, schema, args)
	if err != nil {
		return s.systemError(ctx, t, err)
	}
	if len(missing) > 0 {
		return s.clarify(ctx, t, missing)
	}

	resp, ok := s.execute(ctx, t, schema, draft.Fields)
	if ok {
		if err := s.drafts.Clear(ctx, subject, schema.DraftKind); err != nil {
			s.logger.Warn("failed to clear draft", zap.String("turn_id", t.id), zap.Error(err))
		}
	}
	return resp
}

func (s *Service) dispatch(ctx context.Context, t *turn, schema tools.Schema, args map[string]any) *domain.ChatResponse {
	resp, _ := s.execute(ctx, t, schema, args)
	return resp
}

// execute calls the resource API and shapes the envelope. ok reports a
// successful remote call.
func (s *Service) execute(ctx context.Context, t *turn, schema tools.Schema, args map[string]any) (*domain.ChatResponse, bool) {
	result, err := s.registry.Execute(ctx, s.api, schema.Name, args, t.identity)
	if err != nil {
		return s.systemError(ctx, t, err), false
	}

	s.recordEvent(ctx, t, domain.EventTypeToolResult, map[string]any{"tool_name": schema.Name, "failed": result.Failed(), "detail": result.Detail})
	if result.Failed() {
		t.outcome = "remote_error"
		return &domain.ChatResponse{Message: result.Detail}, false
	}

	t.outcome = "success"
	s.publishSync(ctx, t, schema, args, result.Data)
	return s.shapeResult(ctx, t, schema, result.Data), true
}

func (s *Service) clarify(ctx context.Context, t *turn, missing []string) *domain.ChatResponse {
	t.outcome = "clarification"
	s.recordEvent(ctx, t, domain.EventTypeClarification, map[string]any{"missing": missing})
	return &domain.ChatResponse{Message: tools.Clarification(missing)}
}

func (s *Service) systemError(ctx context.Context, t *turn, err error) *domain.ChatResponse {
	t.outcome = "system_error"
	s.logger.Error("turn failed", zap.String("turn_id", t.id), zap.Error(err))
	s.recordEvent(ctx, t, domain.EventTypeTurnFailed, map[string]any{"error": err.Error()})
	return &domain.ChatResponse{Message: SystemErrorPrefix + err.Error()}
}

func (s *Service) appendTranscript(ctx context.Context, t *turn, role, content string, data any) {
	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String(),
		SessionID: t.sessionID,
		TurnID:    t.id,
		UserID:    t.identity.SubjectID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			msg.Data = b
		}
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		s.logger.Warn("failed to save message", zap.String("turn_id", t.id), zap.Error(err))
		return
	}
	if err := s.store.TouchSession(ctx, t.sessionID, msg.CreatedAt); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to touch session", zap.String("session_id", t.sessionID), zap.Error(err))
	}
}

// statusTransition returns the requested status change of an update_ticket
// proposal, or nil when the proposal does not change ticket_status.
func statusTransition(schema tools.Schema, args map[string]any) *domain.TicketTransition {
	if schema.Name != tools.UpdateTicket {
		return nil
	}
	clean := tools.Sanitize(schema, args)
	status, ok := clean["ticket_status"].(string)
	if !ok {
		return nil
	}
	id, ok := clean["ticket_id"].(int64)
	if !ok {
		return nil
	}
	return &domain.TicketTransition{TicketID: fmt.Sprintf("%d", id), To: domain.TicketStatus(status)}
}

func withoutIdentity(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if domain.IsIdentityField(k) {
			continue
		}
		out[k] = v
	}
	return out
}
