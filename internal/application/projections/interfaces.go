package projections

import (
	"context"

	"campus/internal/domain/attendance"
	"campus/internal/domain/student"
)

// RosterStore looks up the students of a class.
type RosterStore interface {
	ListByClass(ctx context.Context, class attendance.ClassFilter) ([]student.Student, error)
}

// SlotReader reads the records of one slot.
type SlotReader interface {
	ListBySlot(ctx context.Context, date string, period int, studentIDs []string) ([]attendance.Record, error)
}

// RangeReader reads the records of many students over a date range.
type RangeReader interface {
	ListByStudentsAndDateRange(ctx context.Context, studentIDs []string, start, end string) ([]attendance.Record, error)
}

// StudentReader reads the records of one student.
type StudentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]attendance.Record, error)
	ListByStudentAndDateRange(ctx context.Context, studentID, start, end string) ([]attendance.Record, error)
}

// FacultyReader reads the records one faculty member wrote on a day.
type FacultyReader interface {
	ListByFacultyAndDate(ctx context.Context, facultyID, date string) ([]attendance.Record, error)
}
