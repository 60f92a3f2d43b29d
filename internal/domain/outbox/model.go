package outbox

import (
	"errors"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// ActionTypeAbsenceNotice delivers an "you were marked absent" email to a student.
const ActionTypeAbsenceNotice = "absence_notice"

// DefaultMaxAttempts bounds delivery retries.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrMissingCreated  = errors.New("created_at must be set")
)

// Entry is one side effect waiting to be delivered to an external system.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON, replayed on every attempt
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	NextAttemptAt   time.Time // earliest time the worker may pick the entry up
	CreatedAt       time.Time
	ExternalID      string // provider id once delivered
	ErrorMessage    string
}

// NewEntry returns a pending entry.
// PRE: id, actionType and payload are non-empty
// POST: Entry is pending with DefaultMaxAttempts
func NewEntry(id, actionType, payload string, now time.Time) Entry {
	return Entry{
		ID:            id,
		ActionType:    actionType,
		Payload:       payload,
		Status:        StatusPending,
		MaxAttempts:   DefaultMaxAttempts,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingCreated
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// IsTerminal returns true once the entry will never be attempted again.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned, StatusFailed:
		return true
	}
	return false
}

// DueAt returns when the next attempt may run: immediately for a fresh entry,
// otherwise after an exponential backoff of base * 2^attempts capped at max.
func (e *Entry) DueAt(base, max time.Duration) time.Time {
	if e.LastAttemptedAt.IsZero() {
		return e.CreatedAt
	}
	delay := base << e.Attempts
	if delay <= 0 || delay > max {
		delay = max
	}
	return e.LastAttemptedAt.Add(delay)
}

// ScheduleNext sets NextAttemptAt from the backoff after the latest attempt.
// POST: NextAttemptAt == DueAt(base, max)
func (e *Entry) ScheduleNext(base, max time.Duration) {
	e.NextAttemptAt = e.DueAt(base, max)
}

// RecordAttempt counts an attempt made at now.
// POST: Attempts incremented, status retrying
func (e *Entry) RecordAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// RecordSuccess marks the entry delivered.
func (e *Entry) RecordSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// RecordFailure keeps the entry retrying until MaxAttempts, then fails it.
func (e *Entry) RecordFailure(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// Abandon stops all further attempts.
func (e *Entry) Abandon() {
	e.Status = StatusAbandoned
}
