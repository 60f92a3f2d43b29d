package principal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campus/internal/adapters/storage"
	domain "campus/internal/domain/principal"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new principal store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns the credential for a principal.
// PRE: id is non-empty
// POST: Returns the credential or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Credential, error) {
	var c domain.Credential
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, role, name, secret_hash, created_at FROM principal WHERE id = ?`, id,
	).Scan(&c.ID, &c.Role, &c.Name, &c.SecretHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Credential{}, ErrNotFound
	}
	if err != nil {
		return domain.Credential{}, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

// Save inserts or updates a credential.
// PRE: c has been validated and its secret hashed
// POST: Credential is persisted
func (s *SQLiteStore) Save(ctx context.Context, c domain.Credential) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO principal (id, role, name, secret_hash, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET role=excluded.role, name=excluded.name, secret_hash=excluded.secret_hash`,
		c.ID, c.Role, c.Name, c.SecretHash, c.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// Count returns the number of stored principals.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principal`).Scan(&n)
	return n, err
}
