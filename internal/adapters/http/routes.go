package web

import (
	"net/http"

	"campus/internal/adapters/http/middleware"
	"campus/internal/domain/principal"
)

var (
	staffOnly   = middleware.RequireRole(principal.RoleFaculty, principal.RoleAdmin)
	studentOnly = middleware.RequireRole(principal.RoleStudent)
	adminOnly   = middleware.RequireRole(principal.RoleAdmin)
)

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealthz)

	mux.Handle("POST /attendance/mark", staffOnly(http.HandlerFunc(handleSubmitMarks)))
	mux.Handle("GET /attendance/students", staffOnly(http.HandlerFunc(handleGetSlotForMarking)))
	mux.Handle("GET /attendance/daily-report", staffOnly(http.HandlerFunc(handleGetDailyReport)))
	mux.Handle("GET /attendance/monthly-class-report", staffOnly(http.HandlerFunc(handleGetMonthlyClassReport)))
	mux.Handle("GET /attendance/yearly-class-report", staffOnly(http.HandlerFunc(handleGetYearlyClassReport)))
	mux.Handle("GET /attendance/faculty-stats", staffOnly(http.HandlerFunc(handleGetFacultyStats)))

	mux.Handle("GET /attendance/my-stats", studentOnly(http.HandlerFunc(handleGetMyStats)))
	mux.Handle("GET /attendance/my-monthly", studentOnly(http.HandlerFunc(handleGetMyMonthly)))
	mux.Handle("GET /attendance/my-daily", studentOnly(http.HandlerFunc(handleGetMyDaily)))

	mux.Handle("GET /admin/audit", adminOnly(http.HandlerFunc(handleAdminAudit)))
	mux.Handle("GET /admin/perf", adminOnly(http.HandlerFunc(handleAdminPerf)))
	mux.Handle("GET /admin/outbox", adminOnly(http.HandlerFunc(handleAdminOutboxList)))
	mux.Handle("POST /admin/outbox/{id}/{action}", adminOnly(http.HandlerFunc(handleAdminOutboxAction)))
}
