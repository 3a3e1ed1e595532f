package drafts

import (
	"context"
	"sync"
	"time"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

type draftKey struct {
	subject string
	kind    domain.DraftKind
}

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[draftKey]*domain.Draft
}

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[draftKey]*domain.Draft)}
}

func (m *MemoryStore) GetDraft(_ context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftKey{subjectID, kind}]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDraft(d), nil
}

func (m *MemoryStore) SaveDraft(_ context.Context, draft *domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draftKey{draft.SubjectID, draft.Kind}] = cloneDraft(draft)
	return nil
}

func (m *MemoryStore) DeleteDraft(_ context.Context, subjectID string, kind domain.DraftKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftKey{subjectID, kind})
	return nil
}

func (m *MemoryStore) DeleteDraftsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, d := range m.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(m.drafts, k)
			n++
		}
	}
	return n, nil
}

func cloneDraft(d *domain.Draft) *domain.Draft {
	out := *d
	out.Fields = make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		out.Fields[k] = v
	}
	return &out
}
