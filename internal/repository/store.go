// Package store defines the storage interface and its SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, turnID string, types []string, limit int) ([]domain.Event, error)

	// Draft operations
	GetDraft(ctx context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error)
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	DeleteDraft(ctx context.Context, subjectID string, kind domain.DraftKind) error
	DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
