package projections

import (
	"context"
	"sort"

	"campus/internal/domain/attendance"
)

// ClassReportDeps holds dependencies for the class-level reports.
type ClassReportDeps struct {
	Roster     RosterStore
	Attendance RangeReader
}

// MonthlyAggregate is one student's tally for a calendar month.
type MonthlyAggregate struct {
	StudentID  string                `json:"studentId"`
	Name       string                `json:"name"`
	RegNo      string                `json:"reg_no"`
	Present    int                   `json:"present"`
	Absent     int                   `json:"absent"`
	Total      int                   `json:"total"`
	Percentage attendance.Percentage `json:"percentage"`
}

// QueryMonthlyClassReport tallies every roster student's records for a YYYY-MM month.
// PRE: class is a full class triple, month is YYYY-MM
// POST: One row per roster student in roster order; students without records are all zeros
func QueryMonthlyClassReport(ctx context.Context, class attendance.ClassFilter, month string, deps ClassReportDeps) ([]MonthlyAggregate, error) {
	start, end, err := attendance.MonthRange(month)
	if err != nil {
		return nil, err
	}
	roster, err := loadRoster(ctx, deps.Roster, class)
	if err != nil {
		return nil, err
	}
	byStudent, err := scanRoster(ctx, deps.Attendance, roster, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthlyAggregate, len(roster))
	for i, st := range roster {
		var t attendance.StudentTally
		for _, r := range byStudent[st.ID] {
			t.Add(r.Status)
		}
		rows[i] = MonthlyAggregate{
			StudentID:  st.ID,
			Name:       st.Name,
			RegNo:      st.RegNo,
			Present:    t.Present,
			Absent:     t.Absent,
			Total:      t.Total,
			Percentage: t.Percentage(),
		}
	}
	return rows, nil
}

// SubjectPercentage is one cell of the yearly report.
type SubjectPercentage struct {
	Percentage attendance.Percentage `json:"percentage"`
}

// YearlyRow is one student's yearly summary.
type YearlyRow struct {
	StudentID  string                       `json:"studentId"`
	Name       string                       `json:"name"`
	RegNo      string                       `json:"reg_no"`
	Subjects   map[string]SubjectPercentage `json:"subjects"`
	Percentage attendance.Percentage        `json:"percentage"`
}

// YearlyClassReport is the yearly report with a shared column set.
type YearlyClassReport struct {
	Subjects []string    `json:"subjects"`
	Report   []YearlyRow `json:"report"`
}

// QueryYearlyClassReport computes per-subject and overall percentages for a calendar year.
// PRE: class is a full class triple
// POST: Subjects is the sorted union of subjects seen for the class; a row lists only subjects the student has records for
func QueryYearlyClassReport(ctx context.Context, class attendance.ClassFilter, calendarYear int, deps ClassReportDeps) (YearlyClassReport, error) {
	start, end, err := attendance.YearRange(calendarYear)
	if err != nil {
		return YearlyClassReport{}, err
	}
	roster, err := loadRoster(ctx, deps.Roster, class)
	if err != nil {
		return YearlyClassReport{}, err
	}
	byStudent, err := scanRoster(ctx, deps.Attendance, roster, start, end)
	if err != nil {
		return YearlyClassReport{}, err
	}

	seen := make(map[string]bool)
	report := YearlyClassReport{Subjects: []string{}, Report: make([]YearlyRow, len(roster))}
	for i, st := range roster {
		tallies := make(map[string]*attendance.StudentTally)
		var overall attendance.StudentTally
		for _, r := range byStudent[st.ID] {
			t, ok := tallies[r.Subject]
			if !ok {
				t = &attendance.StudentTally{}
				tallies[r.Subject] = t
			}
			t.Add(r.Status)
			overall.Add(r.Status)
		}
		subjects := make(map[string]SubjectPercentage, len(tallies))
		for name, t := range tallies {
			subjects[name] = SubjectPercentage{Percentage: t.Percentage()}
			if !seen[name] {
				seen[name] = true
				report.Subjects = append(report.Subjects, name)
			}
		}
		report.Report[i] = YearlyRow{
			StudentID:  st.ID,
			Name:       st.Name,
			RegNo:      st.RegNo,
			Subjects:   subjects,
			Percentage: overall.Percentage(),
		}
	}
	sort.Strings(report.Subjects)
	return report, nil
}
