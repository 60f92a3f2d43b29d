package roster

import (
	"context"
	"errors"

	"campus/internal/domain/attendance"
	domain "campus/internal/domain/student"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("student not found")

// Store looks up class rosters. The attendance engine reads it; Save exists for
// imports and seeding.
type Store interface {
	// ListByClass returns every student of a class.
	// PRE: class has been validated
	// POST: Students ordered by registration number; unknown class yields an empty list
	ListByClass(ctx context.Context, class attendance.ClassFilter) ([]domain.Student, error)

	// GetByID returns one student.
	// PRE: id is non-empty
	// POST: Returns the student or ErrNotFound
	GetByID(ctx context.Context, id string) (domain.Student, error)

	// Save inserts or updates a student.
	// PRE: s has been validated
	Save(ctx context.Context, s domain.Student) error
}

var _ Store = (*SQLiteStore)(nil)
