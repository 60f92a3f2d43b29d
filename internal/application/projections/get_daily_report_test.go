package projections

import (
	"context"
	"errors"
	"testing"

	"campus/internal/domain/attendance"
	"campus/internal/domain/student"
)

// TestQueryGetDailyReport_GridComplete verifies every row has K cells with unmarked periods as "-".
func TestQueryGetDailyReport_GridComplete(t *testing.T) {
	deps := GetDailyReportDeps{
		Roster: &mockRoster{students: []student.Student{
			cseStudent("s1", "Asha", "21CS001"),
			cseStudent("s2", "Bala", "21CS002"),
			cseStudent("s3", "Chitra", "21CS003"),
		}},
		Attendance: &mockRecords{records: []attendance.Record{
			rec("s1", "2026-03-02", 1, "Maths", attendance.StatusPresent, "f1"),
			rec("s2", "2026-03-02", 1, "Maths", attendance.StatusAbsent, "f1"),
			rec("s3", "2026-03-02", 1, "Maths", attendance.StatusPresent, "f1"),
			rec("s1", "2026-03-02", 4, "Physics", attendance.StatusOnDuty, "f2"),
			rec("s1", "2026-03-03", 2, "Maths", attendance.StatusAbsent, "f1"),
		}},
	}
	rows, err := QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "2026-03-02"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	want := map[string][]string{
		"s1": {"P", "-", "-", "OD", "-", "-"},
		"s2": {"A", "-", "-", "-", "-", "-"},
		"s3": {"P", "-", "-", "-", "-", "-"},
	}
	for _, row := range rows {
		if len(row.Periods) != attendance.DefaultPeriodsPerDay {
			t.Errorf("%s has %d periods, want %d", row.ID, len(row.Periods), attendance.DefaultPeriodsPerDay)
		}
		for p, code := range want[row.ID] {
			if got := row.Periods[p+1].String(); got != code {
				t.Errorf("%s period %d = %s, want %s", row.ID, p+1, got, code)
			}
		}
	}
}

// TestQueryGetDailyReport_IgnoresOutOfRangePeriods verifies records past K do not add cells.
func TestQueryGetDailyReport_IgnoresOutOfRangePeriods(t *testing.T) {
	deps := GetDailyReportDeps{
		Roster:        &mockRoster{students: []student.Student{cseStudent("s1", "Asha", "21CS001")}},
		Attendance:    &mockRecords{records: []attendance.Record{rec("s1", "2026-03-02", 5, "Maths", attendance.StatusPresent, "f1")}},
		PeriodsPerDay: 4,
	}
	rows, err := QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "2026-03-02"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows[0].Periods) != 4 {
		t.Errorf("periods = %d, want 4", len(rows[0].Periods))
	}
}

// TestQueryGetDailyReport_EmptyRoster verifies an empty class yields an empty, non-nil list.
func TestQueryGetDailyReport_EmptyRoster(t *testing.T) {
	deps := GetDailyReportDeps{Roster: &mockRoster{}, Attendance: &mockRecords{}}
	rows, err := QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "2026-03-02"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("rows = %#v, want empty slice", rows)
	}
}

// TestQueryGetDailyReport_Errors verifies validation and storage error classes.
func TestQueryGetDailyReport_Errors(t *testing.T) {
	roster := &mockRoster{students: []student.Student{cseStudent("s1", "Asha", "21CS001")}}
	if _, err := QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "yesterday"},
		GetDailyReportDeps{Roster: roster, Attendance: &mockRecords{}}); !errors.Is(err, attendance.ErrInvalidQuery) {
		t.Errorf("bad date error = %v", err)
	}

	var se *attendance.StorageError
	_, err := QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "2026-03-02"},
		GetDailyReportDeps{Roster: &mockRoster{err: errStoreDown}, Attendance: &mockRecords{}})
	if !errors.As(err, &se) {
		t.Errorf("roster failure error = %v, want *StorageError", err)
	}
	_, err = QueryGetDailyReport(context.Background(), GetDailyReportQuery{Class: classCSE2A, Date: "2026-03-02"},
		GetDailyReportDeps{Roster: roster, Attendance: &mockRecords{err: errStoreDown}})
	if !errors.As(err, &se) {
		t.Errorf("attendance failure error = %v, want *StorageError", err)
	}
}
