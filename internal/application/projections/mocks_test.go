package projections

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"campus/internal/domain/attendance"
	"campus/internal/domain/student"
)

var errStoreDown = errors.New("database is locked")

var classCSE2A = attendance.ClassFilter{Department: "CSE", Year: 2, Section: "A"}

// mockRoster implements RosterStore for testing.
// PRE: class is a full class triple
// POST: Returns the students configured for the class, in insertion order
type mockRoster struct {
	students []student.Student
	err      error
}

// ListByClass implements RosterStore for testing.
// PRE: class is a full class triple
// POST: Returns matching students or the configured error
func (m *mockRoster) ListByClass(_ context.Context, class attendance.ClassFilter) ([]student.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []student.Student{}
	for _, s := range m.students {
		if s.Department == class.Department && s.Year == class.Year && s.Section == class.Section {
			out = append(out, s)
		}
	}
	return out, nil
}

// mockRecords implements every attendance reader over an in-memory slice.
// PRE: records are valid
// POST: Filters mirror the SQLite store, ordered by date then period
type mockRecords struct {
	records    []attendance.Record
	err        error
	rangeCalls atomic.Int32
}

func (m *mockRecords) filter(keep func(attendance.Record) bool) ([]attendance.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []attendance.Record
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Period < out[j].Period
	})
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ListBySlot implements SlotReader for testing.
func (m *mockRecords) ListBySlot(_ context.Context, date string, period int, ids []string) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool {
		return r.Date == date && r.Period == period && contains(ids, r.StudentID)
	})
}

// ListByStudentsAndDateRange implements RangeReader for testing.
func (m *mockRecords) ListByStudentsAndDateRange(_ context.Context, ids []string, start, end string) ([]attendance.Record, error) {
	m.rangeCalls.Add(1)
	return m.filter(func(r attendance.Record) bool {
		return r.Date >= start && r.Date <= end && contains(ids, r.StudentID)
	})
}

// ListByStudent implements StudentReader for testing.
func (m *mockRecords) ListByStudent(_ context.Context, studentID string) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool { return r.StudentID == studentID })
}

// ListByStudentAndDateRange implements StudentReader for testing.
func (m *mockRecords) ListByStudentAndDateRange(_ context.Context, studentID, start, end string) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool {
		return r.StudentID == studentID && r.Date >= start && r.Date <= end
	})
}

// ListByFacultyAndDate implements FacultyReader for testing.
func (m *mockRecords) ListByFacultyAndDate(_ context.Context, facultyID, date string) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool { return r.FacultyID == facultyID && r.Date == date })
}

func cseStudent(id, name, regNo string) student.Student {
	return student.Student{ID: id, Name: name, RegNo: regNo, Department: "CSE", Year: 2, Section: "A"}
}

func rec(studentID, date string, period int, subject string, status attendance.Status, facultyID string) attendance.Record {
	return attendance.Record{
		StudentID: studentID, Date: date, Period: period, Subject: subject,
		Status: status, FacultyID: facultyID,
	}
}
