package projections

import (
	"context"
	"fmt"

	"campus/internal/domain/attendance"
)

// GetDailyReportQuery selects one class on one date.
type GetDailyReportQuery struct {
	Class attendance.ClassFilter
	Date  string
}

// DailyReportRow is one student's grid for the day.
type DailyReportRow struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	RegNo   string                  `json:"reg_no"`
	Periods map[int]attendance.Cell `json:"periods"`
}

// GetDailyReportDeps holds dependencies for GetDailyReport.
type GetDailyReportDeps struct {
	Roster        RosterStore
	Attendance    RangeReader
	PeriodsPerDay int // zero means attendance.DefaultPeriodsPerDay
}

// QueryGetDailyReport builds the period grid for every roster student.
// PRE: query.Class is a full class triple, Date is YYYY-MM-DD
// POST: One row per roster student in roster order, each with exactly K periods
// INVARIANT: Periods without a record are Unmarked, never Absent
func QueryGetDailyReport(ctx context.Context, query GetDailyReportQuery, deps GetDailyReportDeps) ([]DailyReportRow, error) {
	if !attendance.IsDate(query.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", attendance.ErrInvalidQuery)
	}
	roster, err := loadRoster(ctx, deps.Roster, query.Class)
	if err != nil {
		return nil, err
	}
	byStudent, err := scanRoster(ctx, deps.Attendance, roster, query.Date, query.Date)
	if err != nil {
		return nil, err
	}

	k := periodsPerDay(deps.PeriodsPerDay)
	rows := make([]DailyReportRow, len(roster))
	for i, st := range roster {
		periods := make(map[int]attendance.Cell, k)
		for p := 1; p <= k; p++ {
			periods[p] = attendance.Unmarked()
		}
		for _, r := range byStudent[st.ID] {
			if r.Period >= 1 && r.Period <= k {
				periods[r.Period] = attendance.Marked(r.Status)
			}
		}
		rows[i] = DailyReportRow{ID: st.ID, Name: st.Name, RegNo: st.RegNo, Periods: periods}
	}
	return rows, nil
}
