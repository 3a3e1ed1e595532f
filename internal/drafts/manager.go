package drafts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
)

// DefaultTTL is how long an untouched draft survives.
const DefaultTTL = 30 * time.Minute

// Manager merges proposals into drafts and serializes access per key.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger

	// now is replaced in tests.
	now func() time.Time

	mu    sync.Mutex
	locks map[draftKey]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a draft manager over s. A non-positive ttl uses
// DefaultTTL.
func NewManager(s Store, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  s,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		locks:  make(map[draftKey]*keyLock),
	}
}

// Lock acquires the lock for (subjectID, kind) and returns its release.
// Hold it from Merge until the dispatch outcome has been applied.
func (m *Manager) Lock(subjectID string, kind domain.DraftKind) (unlock func()) {
	k := draftKey{subjectID, kind}

	m.mu.Lock()
	l, ok := m.locks[k]
	if !ok {
		l = &keyLock{}
		m.locks[k] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, k)
		}
		m.mu.Unlock()
	}
}

// Get returns the live draft for (subjectID, kind), or ErrNotFound when none
// exists or it has expired.
func (m *Manager) Get(ctx context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error) {
	d, err := m.store.GetDraft(ctx, subjectID, kind)
	if err != nil {
		return nil, err
	}
	if m.expired(d) {
		return nil, ErrNotFound
	}
	return d, nil
}

// Merge overlays the usable values of proposed onto the stored draft for
// schema's kind, persists the result and returns it with the sorted names of
// the required fields still missing. Identity fields, undeclared fields and
// empty values never overwrite anything. The caller must hold Lock.
func (m *Manager) Merge(ctx context.Context, subjectID string, schema tools.Schema, proposed map[string]any) (*domain.Draft, []string, error) {
	if schema.DraftKind == "" {
		return nil, nil, fmt.Errorf("tool %s does not use drafts", schema.Name)
	}

	draft, err := m.Get(ctx, subjectID, schema.DraftKind)
	if errors.Is(err, ErrNotFound) {
		draft = &domain.Draft{SubjectID: subjectID, Kind: schema.DraftKind, Fields: map[string]any{}}
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft.Fields == nil {
		draft.Fields = map[string]any{}
	}

	for k, v := range tools.Sanitize(schema, proposed) {
		draft.Fields[k] = v
	}
	draft.UpdatedAt = m.now()

	if err := m.store.SaveDraft(ctx, draft); err != nil {
		return nil, nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, schema.Missing(draft.Fields), nil
}

// Clear deletes the draft after a successful terminal submission.
func (m *Manager) Clear(ctx context.Context, subjectID string, kind domain.DraftKind) error {
	if err := m.store.DeleteDraft(ctx, subjectID, kind); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Sweep evicts every draft older than the TTL.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteDraftsBefore(ctx, m.now().Add(-m.ttl))
}

// RunSweeper evicts expired drafts every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Manager) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := m.Sweep(sweepCtx)
	if err != nil {
		m.logger.Warn("draft sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		m.logger.Debug("evicted expired drafts", zap.Int64("count", n))
	}
}

func (m *Manager) expired(d *domain.Draft) bool {
	return !d.UpdatedAt.IsZero() && m.now().Sub(d.UpdatedAt) > m.ttl
}
