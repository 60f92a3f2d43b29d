package projections

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"campus/internal/domain/attendance"
	"campus/internal/domain/student"
)

// TestQueryMonthlyClassReport verifies per-student tallies, including a student with no records.
func TestQueryMonthlyClassReport(t *testing.T) {
	deps := ClassReportDeps{
		Roster: &mockRoster{students: []student.Student{
			cseStudent("s1", "Asha", "21CS001"),
			cseStudent("s2", "Bala", "21CS002"),
		}},
		Attendance: &mockRecords{records: []attendance.Record{
			rec("s1", "2026-03-02", 1, "Maths", attendance.StatusPresent, "f1"),
			rec("s1", "2026-03-02", 2, "Maths", attendance.StatusPresent, "f1"),
			rec("s1", "2026-03-03", 1, "Physics", attendance.StatusOnDuty, "f2"),
			rec("s1", "2026-03-04", 1, "Physics", attendance.StatusAbsent, "f2"),
			rec("s1", "2026-02-27", 1, "Physics", attendance.StatusAbsent, "f2"),
		}},
	}
	rows, err := QueryMonthlyClassReport(context.Background(), classCSE2A, "2026-03", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if r := rows[0]; r.StudentID != "s1" || r.Present != 3 || r.Absent != 1 || r.Total != 4 || r.Percentage.String() != "75.0" {
		t.Errorf("s1 = %+v", r)
	}
	if r := rows[1]; r.Present != 0 || r.Absent != 0 || r.Total != 0 || r.Percentage.String() != "0.0" {
		t.Errorf("s2 = %+v, want all zeros", r)
	}
}

// TestQueryMonthlyClassReport_Errors verifies malformed months and storage failures.
func TestQueryMonthlyClassReport_Errors(t *testing.T) {
	roster := &mockRoster{students: []student.Student{cseStudent("s1", "Asha", "21CS001")}}
	if _, err := QueryMonthlyClassReport(context.Background(), classCSE2A, "2026-3", ClassReportDeps{Roster: roster, Attendance: &mockRecords{}}); !errors.Is(err, attendance.ErrInvalidQuery) {
		t.Errorf("bad month error = %v", err)
	}
	var se *attendance.StorageError
	_, err := QueryMonthlyClassReport(context.Background(), classCSE2A, "2026-03", ClassReportDeps{Roster: roster, Attendance: &mockRecords{err: errStoreDown}})
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want *StorageError", err)
	}
}

// TestQueryMonthlyClassReport_LargeRosterIsChunked verifies the roster is read in bounded chunks.
func TestQueryMonthlyClassReport_LargeRosterIsChunked(t *testing.T) {
	var students []student.Student
	var records []attendance.Record
	for i := 0; i < RosterChunkSize*2+10; i++ {
		id := fmt.Sprintf("s%03d", i)
		students = append(students, cseStudent(id, "Student "+id, "21CS"+id))
		records = append(records, rec(id, "2026-03-02", 1, "Maths", attendance.StatusPresent, "f1"))
	}
	reader := &mockRecords{records: records}
	rows, err := QueryMonthlyClassReport(context.Background(), classCSE2A, "2026-03", ClassReportDeps{Roster: &mockRoster{students: students}, Attendance: reader})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reader.rangeCalls.Load(); got != 3 {
		t.Errorf("range queries = %d, want 3", got)
	}
	for _, r := range rows {
		if r.Total != 1 || r.Present != 1 {
			t.Fatalf("row %s = %+v", r.StudentID, r)
		}
	}
}

// TestQueryYearlyClassReport verifies the sorted subject union and per-row subject maps.
func TestQueryYearlyClassReport(t *testing.T) {
	deps := ClassReportDeps{
		Roster: &mockRoster{students: []student.Student{
			cseStudent("s1", "Asha", "21CS001"),
			cseStudent("s2", "Bala", "21CS002"),
			cseStudent("s3", "Chitra", "21CS003"),
		}},
		Attendance: &mockRecords{records: []attendance.Record{
			rec("s1", "2026-01-10", 1, "Physics", attendance.StatusPresent, "f2"),
			rec("s1", "2026-05-10", 1, "Maths", attendance.StatusAbsent, "f1"),
			rec("s2", "2026-11-10", 1, "Chemistry", attendance.StatusOnDuty, "f3"),
			rec("s2", "2025-11-10", 1, "Biology", attendance.StatusPresent, "f4"),
		}},
	}
	got, err := QueryYearlyClassReport(context.Background(), classCSE2A, 2026, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Chemistry", "Maths", "Physics"}; !reflect.DeepEqual(got.Subjects, want) {
		t.Errorf("subjects = %v, want %v", got.Subjects, want)
	}
	s1 := got.Report[0]
	if s1.Percentage.String() != "50.0" || len(s1.Subjects) != 2 || s1.Subjects["Maths"].Percentage.String() != "0.0" {
		t.Errorf("s1 = %+v", s1)
	}
	s2 := got.Report[1]
	if _, ok := s2.Subjects["Biology"]; ok {
		t.Error("records outside the year leaked into s2")
	}
	if s2.Subjects["Chemistry"].Percentage.String() != "100.0" {
		t.Errorf("s2 = %+v", s2)
	}
	s3 := got.Report[2]
	if len(s3.Subjects) != 0 || s3.Percentage.String() != "0.0" {
		t.Errorf("s3 = %+v, want no subjects", s3)
	}
}

// TestQueryYearlyClassReport_EmptyRoster verifies an empty class gives empty lists.
func TestQueryYearlyClassReport_EmptyRoster(t *testing.T) {
	got, err := QueryYearlyClassReport(context.Background(), classCSE2A, 2026, ClassReportDeps{Roster: &mockRoster{}, Attendance: &mockRecords{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subjects == nil || len(got.Subjects) != 0 || len(got.Report) != 0 {
		t.Errorf("got = %+v", got)
	}
}
