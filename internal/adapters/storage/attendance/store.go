package attendance

import (
	"context"
	"errors"

	"campus/internal/adapters/storage"
	domain "campus/internal/domain/attendance"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("attendance record not found")

// Store persists attendance records keyed by (student, date, period).
// Every failure other than ErrNotFound is a *domain.StorageError.
type Store interface {
	// Upsert inserts the record or replaces subject, status and faculty of the existing one.
	// PRE: rec has been validated; rec.ID is used only when the key is new
	// POST: Exactly one row exists for rec.Key(); recorded_at and id are kept on update
	Upsert(ctx context.Context, rec domain.Record) error

	// Get returns the record stored under key.
	Get(ctx context.Context, key domain.Key) (domain.Record, error)

	// ListBySlot returns records for one date and period restricted to studentIDs.
	ListBySlot(ctx context.Context, date string, period int, studentIDs []string) ([]domain.Record, error)

	// ListByStudentsAndDateRange returns records of studentIDs with start <= date <= end.
	ListByStudentsAndDateRange(ctx context.Context, studentIDs []string, start, end string) ([]domain.Record, error)

	// ListByStudent returns every record of one student ordered by date and period.
	ListByStudent(ctx context.Context, studentID string) ([]domain.Record, error)

	// ListByStudentAndDateRange returns one student's records with start <= date <= end.
	ListByStudentAndDateRange(ctx context.Context, studentID, start, end string) ([]domain.Record, error)

	// ListByFacultyAndDate returns the records a faculty member wrote on date.
	ListByFacultyAndDate(ctx context.Context, facultyID, date string) ([]domain.Record, error)
}

var _ Store = (*SQLiteStore)(nil)

// SQLDB defines the database interface needed by the store.
type SQLDB interface {
	storage.SQLDB
}
