package web

import (
	"fmt"
	"net/http"
	"strconv"

	"campus/internal/application/orchestrators"
	"campus/internal/application/projections"
	"campus/internal/domain/attendance"
)

// handleSubmitMarks records a marking batch (POST /attendance/mark).
// PRE: Caller is faculty or admin; body is a JSON markRequest
// POST: 200 {message} on success; 400 validation, 409 locked, 500 storage
func handleSubmitMarks(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	deps := orchestrators.SubmitMarksDeps{
		Clock:         settings.Clock,
		PeriodsPerDay: settings.PeriodsPerDay,
		Roster:        stores.RosterStore,
		Attendance:    stores.AttendanceStore,
		Audit:         stores.AuditStore,
	}
	if settings.NotifyAbsences && stores.OutboxStore != nil {
		deps.Outbox = stores.OutboxStore
	}

	result, err := orchestrators.ExecuteSubmitMarks(r.Context(), orchestrators.SubmitMarksInput{
		Slot:       req.slot(),
		Statuses:   req.statuses(),
		RecordedBy: currentPrincipal(r),
	}, deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Attendance marked successfully",
		"written":       result.Written,
		"overrodeLock":  result.OverrodeLock,
		"noticesQueued": result.NoticesQueued,
	})
}

// handleGetSlotForMarking returns the roster with current statuses (GET /attendance/students).
func handleGetSlotForMarking(w http.ResponseWriter, r *http.Request) {
	class, err := classFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	period, err := strconv.Atoi(r.URL.Query().Get("period"))
	if err != nil {
		writeDomainError(w, fmt.Errorf("%w: period must be a number", attendance.ErrInvalidQuery))
		return
	}
	result, err := projections.QueryGetSlotForMarking(r.Context(), projections.GetSlotForMarkingQuery{
		Class:  class,
		Date:   r.URL.Query().Get("date"),
		Period: period,
	}, projections.GetSlotForMarkingDeps{
		Roster:        stores.RosterStore,
		Attendance:    stores.AttendanceStore,
		PeriodsPerDay: settings.PeriodsPerDay,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetDailyReport returns the period grid for a class (GET /attendance/daily-report).
func handleGetDailyReport(w http.ResponseWriter, r *http.Request) {
	class, err := classFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows, err := projections.QueryGetDailyReport(r.Context(), projections.GetDailyReportQuery{
		Class: class,
		Date:  r.URL.Query().Get("date"),
	}, projections.GetDailyReportDeps{
		Roster:        stores.RosterStore,
		Attendance:    stores.AttendanceStore,
		PeriodsPerDay: settings.PeriodsPerDay,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleGetMonthlyClassReport returns per-student tallies for a month (GET /attendance/monthly-class-report).
func handleGetMonthlyClassReport(w http.ResponseWriter, r *http.Request) {
	class, err := classFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows, err := projections.QueryMonthlyClassReport(r.Context(), class, r.URL.Query().Get("month"), classReportDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleGetYearlyClassReport returns per-subject percentages for a year (GET /attendance/yearly-class-report).
func handleGetYearlyClassReport(w http.ResponseWriter, r *http.Request) {
	class, err := classFromQuery(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	year, err := attendance.ParseCalendarYear(r.URL.Query().Get("calendarYear"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := projections.QueryYearlyClassReport(r.Context(), class, year, classReportDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleGetFacultyStats summarises the caller's marking for a day (GET /attendance/faculty-stats).
// The date defaults to today.
func handleGetFacultyStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = settings.Clock.Today()
	}
	stats, err := projections.QueryFacultyDailyStats(r.Context(), currentPrincipal(r).ID, date, projections.FacultyStatsDeps{
		Attendance: stores.AttendanceStore,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func classReportDeps() projections.ClassReportDeps {
	return projections.ClassReportDeps{Roster: stores.RosterStore, Attendance: stores.AttendanceStore}
}
