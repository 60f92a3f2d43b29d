package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	outboxStore "campus/internal/adapters/storage/outbox"
	"campus/internal/application/orchestrators"
	"campus/internal/domain/outbox"
)

// outboxEntryView is the admin representation of an outbox entry.
type outboxEntryView struct {
	ID              string     `json:"id"`
	ActionType      string     `json:"actionType"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"maxAttempts"`
	LastError       string     `json:"lastError,omitempty"`
	ExternalID      string     `json:"externalId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastAttemptedAt *time.Time `json:"lastAttemptedAt,omitempty"`
	NextAttemptAt   *time.Time `json:"nextAttemptAt,omitempty"`
}

func newOutboxEntryView(e outbox.Entry) outboxEntryView {
	v := outboxEntryView{
		ID:          e.ID,
		ActionType:  e.ActionType,
		Status:      e.Status,
		Attempts:    e.Attempts,
		MaxAttempts: e.MaxAttempts,
		LastError:   e.ErrorMessage,
		ExternalID:  e.ExternalID,
		CreatedAt:   e.CreatedAt,
	}
	if !e.LastAttemptedAt.IsZero() {
		t := e.LastAttemptedAt
		v.LastAttemptedAt = &t
	}
	if !e.IsTerminal() && !e.NextAttemptAt.IsZero() {
		t := e.NextAttemptAt
		v.NextAttemptAt = &t
	}
	return v
}

// handleAdminOutboxList lists outbox entries by status (GET /admin/outbox).
// status defaults to failed; "pending" lists entries due for delivery now.
func handleAdminOutboxList(w http.ResponseWriter, r *http.Request) {
	if stores.OutboxStore == nil {
		writeMessage(w, http.StatusNotFound, "outbox is disabled")
		return
	}
	limit := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = outbox.StatusFailed
	}

	var entries []outbox.Entry
	var err error
	if status == outbox.StatusPending {
		entries, err = stores.OutboxStore.ListPending(r.Context(), time.Now(), limit)
	} else {
		entries, err = stores.OutboxStore.ListByStatus(r.Context(), status, limit)
	}
	if err != nil {
		internalError(w, err)
		return
	}

	views := make([]outboxEntryView, len(entries))
	for i, e := range entries {
		views[i] = newOutboxEntryView(e)
	}
	writeJSON(w, http.StatusOK, views)
}

// handleAdminOutboxAction retries or abandons one entry (POST /admin/outbox/{id}/{action}).
func handleAdminOutboxAction(w http.ResponseWriter, r *http.Request) {
	if outboxProcessor == nil {
		writeMessage(w, http.StatusNotFound, "outbox is disabled")
		return
	}
	id := r.PathValue("id")

	switch r.PathValue("action") {
	case "retry":
		entry, err := outboxProcessor.RetryNow(r.Context(), id)
		switch {
		case errors.Is(err, outboxStore.ErrNotFound):
			writeMessage(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrEntryTerminal):
			writeMessage(w, http.StatusConflict, err.Error())
		case err != nil && entry.ID == "":
			internalError(w, err)
		default:
			// A failed delivery is still a completed retry; the entry carries the error.
			writeJSON(w, http.StatusOK, newOutboxEntryView(entry))
		}

	case "abandon":
		err := outboxProcessor.Abandon(r.Context(), id)
		switch {
		case errors.Is(err, outboxStore.ErrNotFound):
			writeMessage(w, http.StatusNotFound, err.Error())
		case err != nil:
			internalError(w, err)
		default:
			writeJSON(w, http.StatusOK, map[string]string{"status": outbox.StatusAbandoned})
		}

	default:
		writeMessage(w, http.StatusBadRequest, "unknown action")
	}
}
