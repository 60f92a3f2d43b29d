package projections

import (
	"context"
	"fmt"
	"time"

	"campus/internal/domain/attendance"
)

// SubjectStats is a student's tally for one subject.
type SubjectStats struct {
	Total      int                   `json:"total"`
	Present    int                   `json:"present"`
	Percentage attendance.Percentage `json:"percentage"`
	Standing   string                `json:"standing"`
}

// StudentLifetimeStats summarises every record of one student.
type StudentLifetimeStats struct {
	Overall         attendance.Percentage   `json:"overall"`
	TotalClasses    int                     `json:"totalClasses"`
	ClassesAttended int                     `json:"classesAttended"`
	Subjects        map[string]SubjectStats `json:"subjects"`
}

// StudentStatsDeps holds dependencies for the student-facing views.
type StudentStatsDeps struct {
	Attendance StudentReader
}

// QueryStudentLifetimeStats groups every record of a student by subject.
// PRE: studentID is non-empty
// POST: Present and OnDuty count as attended; subjects with no records are not listed
func QueryStudentLifetimeStats(ctx context.Context, studentID string, deps StudentStatsDeps) (StudentLifetimeStats, error) {
	if studentID == "" {
		return StudentLifetimeStats{}, fmt.Errorf("%w: student id is required", attendance.ErrInvalidQuery)
	}
	records, err := deps.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return StudentLifetimeStats{}, attendance.WrapStorage("list_by_student", err)
	}

	tallies := make(map[string]*attendance.StudentTally)
	var overall attendance.StudentTally
	for _, r := range records {
		t, ok := tallies[r.Subject]
		if !ok {
			t = &attendance.StudentTally{}
			tallies[r.Subject] = t
		}
		t.Add(r.Status)
	}

	subjects := make(map[string]SubjectStats, len(tallies))
	for name, t := range tallies {
		overall.Merge(*t)
		pct := t.Percentage()
		subjects[name] = SubjectStats{Total: t.Total, Present: t.Present, Percentage: pct, Standing: pct.Standing()}
	}
	return StudentLifetimeStats{
		Overall:         overall.Percentage(),
		TotalClasses:    overall.Total,
		ClassesAttended: overall.Present,
		Subjects:        subjects,
	}, nil
}

// MonthSummary is a student's tally for one calendar month.
type MonthSummary struct {
	Month      string                `json:"month"`
	Present    int                   `json:"present"`
	Absent     int                   `json:"absent"`
	Total      int                   `json:"total"`
	Percentage attendance.Percentage `json:"percentage"`
}

// QueryStudentMonthlyBreakdown returns twelve month summaries for a calendar year.
// PRE: studentID is non-empty
// POST: Exactly 12 rows, January first; months without records are all zeros
func QueryStudentMonthlyBreakdown(ctx context.Context, studentID string, calendarYear int, deps StudentStatsDeps) ([]MonthSummary, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", attendance.ErrInvalidQuery)
	}
	start, end, err := attendance.YearRange(calendarYear)
	if err != nil {
		return nil, err
	}
	records, err := deps.Attendance.ListByStudentAndDateRange(ctx, studentID, start, end)
	if err != nil {
		return nil, attendance.WrapStorage("list_by_student_range", err)
	}

	var tallies [12]attendance.StudentTally
	for _, r := range records {
		d, err := time.Parse(attendance.DateLayout, r.Date)
		if err != nil {
			continue
		}
		tallies[d.Month()-1].Add(r.Status)
	}

	out := make([]MonthSummary, 12)
	for i, t := range tallies {
		out[i] = MonthSummary{
			Month:      fmt.Sprintf("%04d-%02d", calendarYear, i+1),
			Present:    t.Present,
			Absent:     t.Absent,
			Total:      t.Total,
			Percentage: t.Percentage(),
		}
	}
	return out, nil
}

// DailyLogEntry is one record in a student's own log.
type DailyLogEntry struct {
	Date    string            `json:"date"`
	Period  int               `json:"period"`
	Subject string            `json:"subject"`
	Status  attendance.Status `json:"status"`
}

// QueryStudentDailyLog lists a student's records for one YYYY-MM month.
// PRE: studentID is non-empty
// POST: Entries ordered by date then period; empty slice when there are none
func QueryStudentDailyLog(ctx context.Context, studentID, month string, deps StudentStatsDeps) ([]DailyLogEntry, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", attendance.ErrInvalidQuery)
	}
	start, end, err := attendance.MonthRange(month)
	if err != nil {
		return nil, err
	}
	records, err := deps.Attendance.ListByStudentAndDateRange(ctx, studentID, start, end)
	if err != nil {
		return nil, attendance.WrapStorage("list_by_student_range", err)
	}
	out := make([]DailyLogEntry, len(records))
	for i, r := range records {
		out[i] = DailyLogEntry{Date: r.Date, Period: r.Period, Subject: r.Subject, Status: r.Status}
	}
	return out, nil
}
