package audit

import (
	"context"

	domain "campus/internal/domain/audit"
)

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	// PRE: event is valid
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns audit events matching filter.
	// PRE: limit > 0
	// POST: Returns events ordered by timestamp desc
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Action   domain.Action
	ActorID  string
	Severity domain.Severity
	Since    string // RFC3339 lower bound on timestamp
}

var _ Store = (*SQLiteStore)(nil)
