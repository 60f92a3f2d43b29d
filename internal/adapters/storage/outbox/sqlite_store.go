package outbox

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campus/internal/adapters/storage"
	domain "campus/internal/domain/outbox"
)

const columns = "id, action_type, payload, status, attempts, max_attempts, last_attempted_at, next_attempt_at, created_at, external_id, error_message"

// dueLayout is fixed width so next_attempt_at compares correctly as text.
const dueLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements the outbox Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an outbox entry by its ID.
// PRE: id is non-empty
// POST: Returns the entry or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM outbox WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, ErrNotFound
	}
	return e, err
}

// Save inserts or updates an outbox entry.
// PRE: entry has been validated
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	var lastAttempted sql.NullString
	if !e.LastAttemptedAt.IsZero() {
		lastAttempted = sql.NullString{String: e.LastAttemptedAt.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	next := e.NextAttemptAt
	if next.IsZero() {
		next = e.CreatedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (`+columns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, attempts=excluded.attempts, max_attempts=excluded.max_attempts,
		   last_attempted_at=excluded.last_attempted_at, next_attempt_at=excluded.next_attempt_at,
		   external_id=excluded.external_id, error_message=excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		lastAttempted, next.UTC().Format(dueLayout), e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.ExternalID, e.ErrorMessage)
	return err
}

// ListPending returns entries due for delivery at now.
// PRE: limit > 0
// POST: Returns up to limit pending or retrying entries with next_attempt_at <= now, earliest due first
func (s *SQLiteStore) ListPending(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error) {
	return s.list(ctx,
		`SELECT `+columns+` FROM outbox
		 WHERE status IN (?, ?) AND next_attempt_at <= ?
		 ORDER BY next_attempt_at ASC, created_at ASC LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, now.UTC().Format(dueLayout), limit)
}

// ListByStatus returns entries in one status, newest first.
// PRE: limit > 0
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Entry, error) {
	return s.list(ctx,
		`SELECT `+columns+` FROM outbox WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
		status, limit)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var e domain.Entry
	var lastAttempted sql.NullString
	var nextAttempt, createdAt string
	err := row.Scan(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&lastAttempted, &nextAttempt, &createdAt, &e.ExternalID, &e.ErrorMessage)
	if err != nil {
		return domain.Entry{}, err
	}
	if lastAttempted.Valid && lastAttempted.String != "" {
		e.LastAttemptedAt, _ = time.Parse(time.RFC3339Nano, lastAttempted.String)
	}
	e.NextAttemptAt, _ = time.Parse(time.RFC3339Nano, nextAttempt)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return e, nil
}
