package outbox

import (
	"context"
	"errors"
	"time"

	domain "campus/internal/domain/outbox"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("outbox entry not found")

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	// PRE: id is non-empty
	// POST: Returns the entry or ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save inserts or updates an outbox entry.
	// PRE: entry has been validated
	// POST: Entry is persisted
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns pending or retrying entries whose next attempt is due at now.
	// PRE: limit > 0
	// POST: Returns up to limit entries, earliest due first; backing-off entries are skipped
	ListPending(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error)

	// ListByStatus returns entries in one status, newest first.
	// PRE: limit > 0
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Entry, error)
}

var _ Store = (*SQLiteStore)(nil)
