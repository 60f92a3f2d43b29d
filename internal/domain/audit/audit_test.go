package audit_test

import (
	"errors"
	"testing"
	"time"

	"campus/internal/domain/audit"
)

// TestEvent_Builders tests the chained builder methods.
func TestEvent_Builders(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := audit.NewEvent("e1", now, "f1", "faculty", audit.ActionSubmitMarks).
		WithResource("slot", "CSE-2-A/2026-03-02/1").
		WithDescription("3 marks").
		WithSeverity(audit.SeverityWarning).
		WithMetadata(`{"count":3}`)

	if e.ResourceID != "CSE-2-A/2026-03-02/1" || e.Severity != audit.SeverityWarning {
		t.Errorf("unexpected event: %+v", e)
	}
	if !e.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v", e.Timestamp)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestEvent_Validate tests required fields.
func TestEvent_Validate(t *testing.T) {
	e := audit.NewEvent("e1", time.Now(), "", "admin", audit.ActionOverrideLock)
	if err := e.Validate(); !errors.Is(err, audit.ErrMissingActor) {
		t.Errorf("error = %v, want ErrMissingActor", err)
	}
	if err := audit.NewEvent("", time.Now(), "a1", "admin", audit.ActionOverrideLock).Validate(); err == nil {
		t.Error("expected error for missing id")
	}
}
