package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	store "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/repository"
)

const sessionTitleLayout = "2006-01-02 15:04"

// CreateSession creates a chat session owned by the caller. Without a title
// the session is named after its UTC creation time.
func (s *Service) CreateSession(ctx context.Context, id domain.Identity, req domain.CreateSessionRequest) (*domain.CreateSessionResponse, error) {
	now := s.now().UTC()
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = now.Format(sessionTitleLayout)
	}

	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String(),
		UserID:    id.SubjectID,
		Role:      id.Role,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.CreateSessionResponse{SessionID: session.SessionID, Title: title}, nil
}

// ListSessions returns the caller's sessions, most recently used first.
func (s *Service) ListSessions(ctx context.Context, id domain.Identity, limit int) ([]domain.Session, error) {
	sessions, err := s.store.ListSessions(ctx, id.SubjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// SaveMessage appends a transcript entry to one of the caller's sessions.
func (s *Service) SaveMessage(ctx context.Context, id domain.Identity, req domain.SaveMessageRequest) (*domain.Message, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	if req.Role != "user" && req.Role != "assistant" {
		return nil, fmt.Errorf("%w: role must be user or assistant", ErrInvalidInput)
	}
	if _, err := s.ownedSession(ctx, id, req.SessionID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String(),
		SessionID: req.SessionID,
		UserID:    id.SubjectID,
		Role:      req.Role,
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	if len(req.Data) > 0 && json.Valid(req.Data) {
		msg.Data = req.Data
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	if err := s.store.TouchSession(ctx, req.SessionID, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}
	return msg, nil
}

// GetMessages returns a session transcript, oldest first.
func (s *Service) GetMessages(ctx context.Context, id domain.Identity, sessionID string, limit int) ([]domain.Message, error) {
	if _, err := s.ownedSession(ctx, id, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.store.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// ownedSession loads a session and hides sessions of other subjects.
func (s *Service) ownedSession(ctx context.Context, id domain.Identity, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != id.SubjectID {
		return nil, ErrNotFound
	}
	return session, nil
}
