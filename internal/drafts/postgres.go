package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// PostgresStore shares drafts between router replicas.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to url and creates the drafts table if needed.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate drafts: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS router_drafts (
		subject_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		fields JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (subject_id, kind)
	)`)
	return err
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) GetDraft(ctx context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error) {
	var raw []byte
	draft := domain.Draft{SubjectID: subjectID, Kind: kind}
	err := s.pool.QueryRow(ctx,
		`SELECT fields, updated_at FROM router_drafts WHERE subject_id = $1 AND kind = $2`,
		subjectID, string(kind)).Scan(&raw, &draft.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &draft.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode draft fields: %w", err)
	}
	return &draft, nil
}

func (s *PostgresStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	raw, err := json.Marshal(draft.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode draft fields: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO router_drafts (subject_id, kind, fields, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id, kind) DO UPDATE SET fields = EXCLUDED.fields, updated_at = EXCLUDED.updated_at`,
		draft.SubjectID, string(draft.Kind), raw, draft.UpdatedAt)
	return err
}

func (s *PostgresStore) DeleteDraft(ctx context.Context, subjectID string, kind domain.DraftKind) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM router_drafts WHERE subject_id = $1 AND kind = $2`, subjectID, string(kind))
	return err
}

func (s *PostgresStore) DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM router_drafts WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
