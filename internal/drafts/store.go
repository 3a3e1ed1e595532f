// Package drafts accumulates creation arguments across turns, one draft per
// (subject, kind).
package drafts

import (
	"context"
	"time"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	store "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/repository"
)

// ErrNotFound is returned by backends when no draft is stored.
var ErrNotFound = store.ErrNotFound

// Store persists drafts. *store.SQLiteStore satisfies it directly.
type Store interface {
	GetDraft(ctx context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error)
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	DeleteDraft(ctx context.Context, subjectID string, kind domain.DraftKind) error
	DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ Store = (*store.SQLiteStore)(nil)
