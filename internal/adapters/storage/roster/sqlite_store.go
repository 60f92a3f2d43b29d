package roster

import (
	"context"
	"database/sql"
	"errors"

	"campus/internal/adapters/storage"
	"campus/internal/domain/attendance"
	domain "campus/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new roster store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByClass returns every student of a class ordered by registration number.
// PRE: class has been validated
// POST: Empty slice (not an error) when the class has no students
func (s *SQLiteStore) ListByClass(ctx context.Context, class attendance.ClassFilter) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, reg_no, email, department, year, section FROM student
		 WHERE department = ? AND year = ? AND section = ? ORDER BY reg_no`,
		class.Department, class.Year, class.Section)
	if err != nil {
		return nil, attendance.WrapStorage("list_roster", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, attendance.WrapStorage("list_roster", err)
		}
		students = append(students, st)
	}
	return students, attendance.WrapStorage("list_roster", rows.Err())
}

// GetByID returns one student.
// PRE: id is non-empty
// POST: Returns the student or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, reg_no, email, department, year, section FROM student WHERE id = ?`, id)
	st, err := scanStudent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, ErrNotFound
	}
	return st, attendance.WrapStorage("get_student", err)
}

// Save inserts or updates a student.
// PRE: st has been validated
// POST: Student is persisted
func (s *SQLiteStore) Save(ctx context.Context, st domain.Student) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student (id, name, reg_no, email, department, year, section)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, reg_no=excluded.reg_no, email=excluded.email,
		   department=excluded.department, year=excluded.year, section=excluded.section`,
		st.ID, st.Name, st.RegNo, st.Email, st.Department, st.Year, st.Section)
	return err
}

func scanStudent(scan func(dest ...any) error) (domain.Student, error) {
	var st domain.Student
	err := scan(&st.ID, &st.Name, &st.RegNo, &st.Email, &st.Department, &st.Year, &st.Section)
	return st, err
}
