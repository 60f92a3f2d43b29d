package audit

import (
	"errors"
	"time"
)

// Action names what happened.
type Action string

const (
	ActionSubmitMarks  Action = "submit_marks"
	ActionOverrideLock Action = "override_lock"
	ActionAuthFailed   Action = "auth_failed"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ErrMissingActor is returned when an event does not name who acted.
var ErrMissingActor = errors.New("audit event requires an actor")

// Event is a single audit log entry.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	ActorID      string    `json:"actorId"`
	ActorRole    string    `json:"actorRole"`
	ResourceType string    `json:"resourceType,omitempty"`
	ResourceID   string    `json:"resourceId,omitempty"`
	Description  string    `json:"description,omitempty"`
	Metadata     string    `json:"metadata,omitempty"`
}

// NewEvent creates an info-level event.
// PRE: id, actorID and action are non-empty
// POST: Returns an Event stamped at now
func NewEvent(id string, now time.Time, actorID, actorRole string, action Action) Event {
	return Event{
		ID:        id,
		Timestamp: now,
		Action:    action,
		Severity:  SeverityInfo,
		ActorID:   actorID,
		ActorRole: actorRole,
	}
}

// Validate checks the event can be stored.
func (e Event) Validate() error {
	if e.ActorID == "" {
		return ErrMissingActor
	}
	if e.ID == "" || e.Action == "" {
		return errors.New("audit event requires an id and action")
	}
	return nil
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource sets resource information.
// PRE: resourceType and resourceID are non-empty
// POST: Event resource fields are populated
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithMetadata sets optional JSON metadata.
// PRE: metadata is valid JSON or empty
func (e Event) WithMetadata(metadata string) Event {
	e.Metadata = metadata
	return e
}
