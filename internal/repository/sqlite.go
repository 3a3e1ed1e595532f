package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, updated_at)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			turn_id TEXT,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			data TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS turn_events (
			event_id TEXT PRIMARY KEY,
			turn_id TEXT NOT NULL,
			session_id TEXT,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turn_events_turn ON turn_events(turn_id, ts)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			subject_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			fields TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (subject_id, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	updatedAt := session.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = session.CreatedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, user_id, role, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.Role, session.Title, session.CreatedAt, updatedAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, role, title, created_at, updated_at FROM chat_sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UserID, &session.Role, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns a user's sessions, most recently active first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	query := `SELECT session_id, user_id, role, title, created_at, updated_at FROM chat_sessions WHERE user_id = ? ORDER BY updated_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.UserID, &session.Role, &session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// TouchSession bumps a session's updated_at.
func (s *SQLiteStore) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE session_id = ?`, at, sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	var turnID, data sql.NullString
	if message.TurnID != "" {
		turnID = sql.NullString{String: message.TurnID, Valid: true}
	}
	if len(message.Data) > 0 {
		data = sql.NullString{String: string(message.Data), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (message_id, session_id, turn_id, user_id, role, content, data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, turnID, message.UserID, message.Role, message.Content, data, message.CreatedAt)
	return err
}

const messageColumns = `message_id, session_id, turn_id, user_id, role, content, data, created_at`

// GetMessages retrieves messages for a session, oldest first.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return s.queryMessages(ctx, query, sessionID)
}

// GetRecentMessages returns the newest limit messages of a session, oldest
// first.
func (s *SQLiteStore) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
	messages, err := s.queryMessages(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var turnID, data sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &turnID, &msg.UserID, &msg.Role, &msg.Content, &data, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if turnID.Valid {
			msg.TurnID = turnID.String
		}
		if data.Valid {
			msg.Data = json.RawMessage(data.String)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turn_events (event_id, turn_id, session_id, ts, type, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		event.EventID, event.TurnID, event.SessionID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a turn in order.
func (s *SQLiteStore) GetEvents(ctx context.Context, turnID string, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, turn_id, session_id, ts, type, payload FROM turn_events WHERE turn_id = ?`
	args := []interface{}{turnID}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(` AND type IN (%s)`, strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var sessionID, payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.TurnID, &sessionID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		event.SessionID = sessionID.String
		if payload.Valid && payload.String != "" {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetDraft returns the stored draft, or ErrNotFound.
func (s *SQLiteStore) GetDraft(ctx context.Context, subjectID string, kind domain.DraftKind) (*domain.Draft, error) {
	var fields string
	draft := domain.Draft{SubjectID: subjectID, Kind: kind}
	err := s.db.QueryRowContext(ctx,
		`SELECT fields, updated_at FROM drafts WHERE subject_id = ? AND kind = ?`,
		subjectID, kind).Scan(&fields, &draft.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &draft.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode draft fields: %w", err)
	}
	return &draft, nil
}

// SaveDraft inserts or replaces a draft.
func (s *SQLiteStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	fields, err := json.Marshal(draft.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode draft fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO drafts (subject_id, kind, fields, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(subject_id, kind) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`,
		draft.SubjectID, draft.Kind, string(fields), draft.UpdatedAt.UTC())
	return err
}

// DeleteDraft removes a draft. Deleting a missing draft is not an error.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, subjectID string, kind domain.DraftKind) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE subject_id = ? AND kind = ?`, subjectID, kind)
	return err
}

// DeleteDraftsBefore evicts drafts last updated before cutoff.
func (s *SQLiteStore) DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
