package web

import (
	"net/http"
	"strconv"
	"time"
)

// handleAdminPerf returns request and query timing aggregates (GET /admin/perf).
// window is a duration such as 15m (default 1h); top bounds the slowest lists (default 10).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeMessage(w, http.StatusNotFound, "performance collection is disabled")
		return
	}
	window := time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeMessage(w, http.StatusBadRequest, "window must be a positive duration")
			return
		}
		window = d
	}
	top := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 && n <= 100 {
		top = n
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-window), top))
}
