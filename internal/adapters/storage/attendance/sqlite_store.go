package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus/internal/adapters/storage"
	domain "campus/internal/domain/attendance"
)

const columns = "id, student_id, date, period, subject, status, faculty_id, recorded_at, updated_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Upsert writes one record under its unique key.
// PRE: rec has been validated
// POST: One row for rec.Key(); concurrent writers of the same key leave the last write
func (s *SQLiteStore) Upsert(ctx context.Context, rec domain.Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = rec.UpdatedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (`+columns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(student_id, date, period) DO UPDATE SET
		   subject = excluded.subject,
		   status = excluded.status,
		   faculty_id = excluded.faculty_id,
		   updated_at = excluded.updated_at`,
		rec.ID, rec.StudentID, rec.Date, rec.Period, rec.Subject, string(rec.Status), rec.FacultyID,
		formatTime(rec.RecordedAt), formatTime(rec.UpdatedAt),
	)
	return domain.WrapStorage("upsert", err)
}

// Get returns the record stored under key.
// PRE: key fields are set
// POST: Returns the record or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key domain.Key) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM attendance WHERE student_id = ? AND date = ? AND period = ?`,
		key.StudentID, key.Date, key.Period)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, ErrNotFound
	}
	return rec, domain.WrapStorage("get", err)
}

// ListBySlot returns records for one date and period restricted to studentIDs.
// PRE: date is YYYY-MM-DD
// POST: Returns at most one record per student; empty studentIDs yields nil
func (s *SQLiteStore) ListBySlot(ctx context.Context, date string, period int, studentIDs []string) ([]domain.Record, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(studentIDs)
	args = append(args, date, period)
	return s.list(ctx, "list_by_slot",
		`SELECT `+columns+` FROM attendance WHERE student_id IN (`+in+`) AND date = ? AND period = ?
		 ORDER BY student_id`, args...)
}

// ListByStudentsAndDateRange returns records of studentIDs within an inclusive date range.
// PRE: start and end are YYYY-MM-DD
// POST: Records ordered by student, date, period
func (s *SQLiteStore) ListByStudentsAndDateRange(ctx context.Context, studentIDs []string, start, end string) ([]domain.Record, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(studentIDs)
	args = append(args, start, end)
	return s.list(ctx, "list_by_students_range",
		`SELECT `+columns+` FROM attendance WHERE student_id IN (`+in+`) AND date >= ? AND date <= ?
		 ORDER BY student_id, date, period`, args...)
}

// ListByStudent returns every record of one student.
// PRE: studentID is non-empty
// POST: Records ordered by date, period
func (s *SQLiteStore) ListByStudent(ctx context.Context, studentID string) ([]domain.Record, error) {
	return s.list(ctx, "list_by_student",
		`SELECT `+columns+` FROM attendance WHERE student_id = ? ORDER BY date, period`, studentID)
}

// ListByStudentAndDateRange returns one student's records within an inclusive date range.
// PRE: start and end are YYYY-MM-DD
// POST: Records ordered by date, period
func (s *SQLiteStore) ListByStudentAndDateRange(ctx context.Context, studentID, start, end string) ([]domain.Record, error) {
	return s.list(ctx, "list_by_student_range",
		`SELECT `+columns+` FROM attendance WHERE student_id = ? AND date >= ? AND date <= ? ORDER BY date, period`,
		studentID, start, end)
}

// ListByFacultyAndDate returns the records a faculty member wrote on date.
// PRE: facultyID is non-empty, date is YYYY-MM-DD
func (s *SQLiteStore) ListByFacultyAndDate(ctx context.Context, facultyID, date string) ([]domain.Record, error) {
	return s.list(ctx, "list_by_faculty_date",
		`SELECT `+columns+` FROM attendance WHERE faculty_id = ? AND date = ? ORDER BY period, student_id`,
		facultyID, date)
}

func (s *SQLiteStore) list(ctx context.Context, op, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStorage(op, err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, domain.WrapStorage(op, err)
		}
		out = append(out, rec)
	}
	return out, domain.WrapStorage(op, rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var rec domain.Record
	var status, recordedAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Period, &rec.Subject, &status,
		&rec.FacultyID, &recordedAt, &updatedAt); err != nil {
		return domain.Record{}, err
	}
	rec.Status = domain.Status(status)
	var err error
	if rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		return domain.Record{}, fmt.Errorf("parse recorded_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, nil
}

func inClause(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
