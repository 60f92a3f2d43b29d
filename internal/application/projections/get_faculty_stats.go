package projections

import (
	"context"
	"fmt"

	"campus/internal/domain/attendance"
)

// FacultyDailyStats summarises what one faculty member marked on one day.
type FacultyDailyStats struct {
	TodayPercentage  attendance.Percentage `json:"todayPercentage"`
	ClassesConducted bool                  `json:"classesConducted"`
	TotalMarked      int                   `json:"totalMarked"`
	TotalPresent     int                   `json:"totalPresent"`
}

// FacultyStatsDeps holds dependencies for FacultyDailyStats.
type FacultyStatsDeps struct {
	Attendance FacultyReader
}

// QueryFacultyDailyStats counts the records facultyID wrote on date.
// PRE: facultyID is non-empty, date is YYYY-MM-DD
// POST: Only Present counts toward TotalPresent; OnDuty is marked but not present here
func QueryFacultyDailyStats(ctx context.Context, facultyID, date string, deps FacultyStatsDeps) (FacultyDailyStats, error) {
	if facultyID == "" {
		return FacultyDailyStats{}, fmt.Errorf("%w: faculty id is required", attendance.ErrInvalidQuery)
	}
	if !attendance.IsDate(date) {
		return FacultyDailyStats{}, fmt.Errorf("%w: date must be YYYY-MM-DD", attendance.ErrInvalidQuery)
	}
	records, err := deps.Attendance.ListByFacultyAndDate(ctx, facultyID, date)
	if err != nil {
		return FacultyDailyStats{}, attendance.WrapStorage("list_by_faculty_date", err)
	}

	var t attendance.FacultyTally
	for _, r := range records {
		t.Add(r.Status)
	}
	return FacultyDailyStats{
		TodayPercentage:  t.Percentage(),
		ClassesConducted: t.Conducted(),
		TotalMarked:      t.Marked,
		TotalPresent:     t.Present,
	}, nil
}
