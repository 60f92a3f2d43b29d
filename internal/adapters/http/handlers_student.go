package web

import (
	"net/http"

	"campus/internal/application/projections"
	"campus/internal/domain/attendance"
)

// Student principals share their id with the roster entry they belong to.

// handleGetMyStats returns the caller's lifetime statistics (GET /attendance/my-stats).
func handleGetMyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := projections.QueryStudentLifetimeStats(r.Context(), currentPrincipal(r).ID, studentStatsDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetMyMonthly returns the caller's month-by-month summary (GET /attendance/my-monthly).
// calendarYear defaults to the current year.
func handleGetMyMonthly(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("calendarYear")
	if raw == "" {
		raw = settings.Clock.Today()[:4]
	}
	year, err := attendance.ParseCalendarYear(raw)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows, err := projections.QueryStudentMonthlyBreakdown(r.Context(), currentPrincipal(r).ID, year, studentStatsDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleGetMyDaily returns the caller's records for one month (GET /attendance/my-daily).
// month defaults to the current month.
func handleGetMyDaily(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = settings.Clock.Today()[:7]
	}
	rows, err := projections.QueryStudentDailyLog(r.Context(), currentPrincipal(r).ID, month, studentStatsDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func studentStatsDeps() projections.StudentStatsDeps {
	return projections.StudentStatsDeps{Attendance: stores.AttendanceStore}
}
