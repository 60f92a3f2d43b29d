package web

import (
	"net/http"
	"strconv"

	auditStore "campus/internal/adapters/storage/audit"
	auditDomain "campus/internal/domain/audit"
)

// handleAdminAudit lists recent audit events (GET /admin/audit)
// PRE: Caller is an admin
// POST: Returns events newest first, filtered by action, actor_id, severity and since
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := auditStore.Filter{
		Action:   auditDomain.Action(q.Get("action")),
		ActorID:  q.Get("actor_id"),
		Severity: auditDomain.Severity(q.Get("severity")),
		Since:    q.Get("since"),
	}

	// Parse limit, default to 100
	limit := 100
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if events == nil {
		events = []auditDomain.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
