package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// recordEvent records a turn audit event. Failures are logged, never
// surfaced to the caller.
func (s *Service) recordEvent(ctx context.Context, t *turn, eventType domain.EventType, payload interface{}) {
	event := domain.NewEvent("evt_"+uuid.New().String()[:8], t.id, t.sessionID, s.now(), eventType, payload)
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.Warn("failed to record event", zap.String("turn_id", t.id), zap.String("type", string(eventType)), zap.Error(err))
	}
}

// GetTurnEvents returns the audit trail of a turn owned by the caller.
func (s *Service) GetTurnEvents(ctx context.Context, id domain.Identity, turnID string, types []string) ([]domain.Event, error) {
	all, err := s.store.GetEvents(ctx, turnID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	if len(all) == 0 || !ownsTurn(all, id.SubjectID) {
		return nil, ErrNotFound
	}
	if len(types) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	out := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if want[string(e.Type)] {
			out = append(out, e)
		}
	}
	return out, nil
}

func ownsTurn(evts []domain.Event, subjectID string) bool {
	for _, e := range evts {
		if e.Type != domain.EventTypeUserInput {
			continue
		}
		var p userInputPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return false
		}
		return p.SubjectID == subjectID
	}
	return false
}

type userInputPayload struct {
	SubjectID string      `json:"subject_id"`
	Role      domain.Role `json:"role"`
	Utterance string      `json:"utterance"`
}
