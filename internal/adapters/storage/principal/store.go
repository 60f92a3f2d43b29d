package principal

import (
	"context"
	"errors"

	domain "campus/internal/domain/principal"
)

// ErrNotFound is returned when no principal has the requested id.
var ErrNotFound = errors.New("principal not found")

// Store persists principal credentials.
type Store interface {
	// GetByID returns the credential for a principal.
	// PRE: id is non-empty
	// POST: Returns the credential or ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Credential, error)

	// Save inserts or updates a credential.
	// PRE: c has been validated and its secret hashed
	Save(ctx context.Context, c domain.Credential) error

	// Count returns the number of stored principals.
	Count(ctx context.Context) (int, error)
}

var _ Store = (*SQLiteStore)(nil)
