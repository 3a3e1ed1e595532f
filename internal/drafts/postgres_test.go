package drafts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	subject := "pgtest-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = s.DeleteDraft(context.Background(), subject, domain.DraftKindTicket) })

	_, err = s.GetDraft(ctx, subject, domain.DraftKindTicket)
	assert.ErrorIs(t, err, ErrNotFound)

	d := &domain.Draft{SubjectID: subject, Kind: domain.DraftKindTicket, Fields: map[string]any{"priority": "High"}, UpdatedAt: time.Now()}
	require.NoError(t, s.SaveDraft(ctx, d))

	got, err := s.GetDraft(ctx, subject, domain.DraftKindTicket)
	require.NoError(t, err)
	assert.Equal(t, "High", got.Fields["priority"])

	require.NoError(t, s.DeleteDraft(ctx, subject, domain.DraftKindTicket))
	_, err = s.GetDraft(ctx, subject, domain.DraftKindTicket)
	assert.ErrorIs(t, err, ErrNotFound)
}
