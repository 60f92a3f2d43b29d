package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"campus/internal/domain/attendance"
	"campus/internal/domain/audit"
	"campus/internal/domain/outbox"
	"campus/internal/domain/principal"
	"campus/internal/domain/student"
)

// DefaultMarkConcurrency bounds the number of upserts in flight for one batch.
const DefaultMarkConcurrency = 8

// MarkRosterStore defines the roster lookup needed for marking.
type MarkRosterStore interface {
	ListByClass(ctx context.Context, class attendance.ClassFilter) ([]student.Student, error)
}

// MarkAttendanceStore defines the attendance persistence needed for marking.
type MarkAttendanceStore interface {
	Upsert(ctx context.Context, rec attendance.Record) error
	ListBySlot(ctx context.Context, date string, period int, studentIDs []string) ([]attendance.Record, error)
}

// AuditSaver persists audit events.
type AuditSaver interface {
	Save(ctx context.Context, e audit.Event) error
}

// OutboxSaver persists outbox entries.
type OutboxSaver interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// SubmitMarksInput carries one marking batch.
type SubmitMarksInput struct {
	Slot       attendance.Slot
	Statuses   []attendance.StudentStatus
	RecordedBy principal.Principal
}

// SubmitMarksResult reports what the batch did.
type SubmitMarksResult struct {
	Written       int
	OverrodeLock  bool
	NoticesQueued int
}

// SubmitMarksDeps holds dependencies for SubmitMarks.
type SubmitMarksDeps struct {
	Clock         attendance.Clock
	PeriodsPerDay int // zero means attendance.DefaultPeriodsPerDay
	Roster        MarkRosterStore
	Attendance    MarkAttendanceStore
	Audit         AuditSaver  // optional: nil skips audit events
	Outbox        OutboxSaver // optional: nil disables absence notices
	Concurrency   int         // zero means DefaultMarkConcurrency
	GenerateID    func() string
	Now           func() time.Time
}

// AbsenceNotice is the outbox payload for one absent student.
type AbsenceNotice struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Period    int    `json:"period"`
	Subject   string `json:"subject"`
	MarkedBy  string `json:"markedBy"`
}

// ExecuteSubmitMarks validates a batch and writes one record per student.
// PRE: input.RecordedBy is an authenticated faculty member or administrator
// POST: On success every listed student has a record for (date, period) carrying the submitted status
// INVARIANT: No write happens unless every validation step passes
//
// The writes are independent upserts issued concurrently. They are not atomic as a
// group: if one fails, writes not yet started are cancelled, writes already done
// stay, and a *attendance.StorageError is returned.
func ExecuteSubmitMarks(ctx context.Context, input SubmitMarksInput, deps SubmitMarksDeps) (SubmitMarksResult, error) {
	deps = deps.withDefaults()
	slot := input.Slot

	if slot.Date != deps.Clock.Today() {
		return SubmitMarksResult{}, attendance.ErrInvalidDate
	}
	if slot.Period < 1 || slot.Period > deps.PeriodsPerDay {
		return SubmitMarksResult{}, fmt.Errorf("%w: %d not in 1..%d", attendance.ErrInvalidPeriod, slot.Period, deps.PeriodsPerDay)
	}
	if err := slot.Class.Validate(); err != nil {
		return SubmitMarksResult{}, err
	}
	if len(input.Statuses) == 0 {
		return SubmitMarksResult{}, attendance.ErrEmptyRoster
	}

	parsed := make([]attendance.Status, len(input.Statuses))
	seen := make(map[string]bool, len(input.Statuses))
	for i, s := range input.Statuses {
		status, err := attendance.ParseStatus(s.Status)
		if err != nil {
			return SubmitMarksResult{}, err
		}
		if s.StudentID == "" {
			return SubmitMarksResult{}, fmt.Errorf("%w: entry %d has no student", attendance.ErrInvalidQuery, i)
		}
		if seen[s.StudentID] {
			return SubmitMarksResult{}, fmt.Errorf("%w: %s", attendance.ErrDuplicateStudent, s.StudentID)
		}
		seen[s.StudentID] = true
		parsed[i] = status
	}

	roster, err := deps.Roster.ListByClass(ctx, slot.Class)
	if err != nil {
		return SubmitMarksResult{}, attendance.WrapStorage("list_roster", err)
	}
	ids := make([]string, len(roster))
	onRoster := make(map[string]bool, len(roster))
	for i, st := range roster {
		ids[i] = st.ID
		onRoster[st.ID] = true
	}
	for _, s := range input.Statuses {
		if !onRoster[s.StudentID] {
			return SubmitMarksResult{}, fmt.Errorf("%w: %s", attendance.ErrUnknownStudent, s.StudentID)
		}
	}

	now := deps.Now()
	records := make([]attendance.Record, len(input.Statuses))
	for i, s := range input.Statuses {
		rec := attendance.Record{
			ID:         deps.GenerateID(),
			StudentID:  s.StudentID,
			Date:       slot.Date,
			Period:     slot.Period,
			Subject:    slot.Subject,
			Status:     parsed[i],
			FacultyID:  input.RecordedBy.ID,
			RecordedAt: now,
			UpdatedAt:  now,
		}
		if err := rec.Validate(); err != nil {
			return SubmitMarksResult{}, err
		}
		records[i] = rec
	}

	existing, err := deps.Attendance.ListBySlot(ctx, slot.Date, slot.Period, ids)
	if err != nil {
		return SubmitMarksResult{}, attendance.WrapStorage("list_by_slot", err)
	}

	var result SubmitMarksResult
	if len(existing) > 0 {
		if !input.RecordedBy.IsAdmin() {
			return SubmitMarksResult{}, attendance.ErrSlotLocked
		}
		result.OverrodeLock = true
		deps.audit(ctx, audit.NewEvent(deps.GenerateID(), deps.Now(), input.RecordedBy.ID, input.RecordedBy.Role, audit.ActionOverrideLock).
			WithSeverity(audit.SeverityWarning).
			WithResource("slot", slotResourceID(slot)).
			WithDescription(fmt.Sprintf("re-marked a submitted period (%d existing records)", len(existing))))
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deps.Concurrency)
	for _, rec := range records {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := deps.Attendance.Upsert(gctx, rec); err != nil {
				return attendance.WrapStorage("upsert", err)
			}
			written.Add(1)
			return nil
		})
	}
	err = g.Wait()
	result.Written = int(written.Load())
	if err == nil && ctx.Err() != nil {
		err = attendance.WrapStorage("upsert", ctx.Err())
	}
	if err != nil {
		slog.Error("attendance_event", "event", "marks_partial_failure",
			"faculty_id", input.RecordedBy.ID, "slot", slotResourceID(slot),
			"written", result.Written, "requested", len(input.Statuses), "error", err)
		return result, err
	}

	slog.Info("attendance_event", "event", "marks_submitted",
		"faculty_id", input.RecordedBy.ID, "slot", slotResourceID(slot),
		"count", result.Written, "override", result.OverrodeLock)

	meta, _ := json.Marshal(map[string]any{"date": slot.Date, "period": slot.Period, "subject": slot.Subject, "count": result.Written})
	deps.audit(ctx, audit.NewEvent(deps.GenerateID(), deps.Now(), input.RecordedBy.ID, input.RecordedBy.Role, audit.ActionSubmitMarks).
		WithResource("slot", slotResourceID(slot)).
		WithMetadata(string(meta)))

	result.NoticesQueued = enqueueAbsenceNotices(ctx, input, parsed, roster, deps)
	return result, nil
}

// enqueueAbsenceNotices queues one notice per absent student with an email address.
// Failures are logged and never fail the batch.
func enqueueAbsenceNotices(ctx context.Context, input SubmitMarksInput, parsed []attendance.Status, roster []student.Student, deps SubmitMarksDeps) int {
	if deps.Outbox == nil {
		return 0
	}
	byID := make(map[string]student.Student, len(roster))
	for _, st := range roster {
		byID[st.ID] = st
	}

	queued := 0
	for i, s := range input.Statuses {
		if parsed[i] != attendance.StatusAbsent {
			continue
		}
		st, ok := byID[s.StudentID]
		if !ok || !st.HasEmail() {
			continue
		}
		payload, err := json.Marshal(AbsenceNotice{
			StudentID: st.ID,
			Name:      st.Name,
			Email:     st.Email,
			Date:      input.Slot.Date,
			Period:    input.Slot.Period,
			Subject:   input.Slot.Subject,
			MarkedBy:  input.RecordedBy.Name,
		})
		if err != nil {
			slog.Error("absence_notice_encode_failed", "student_id", st.ID, "error", err)
			continue
		}
		entry := outbox.NewEntry(deps.GenerateID(), outbox.ActionTypeAbsenceNotice, string(payload), deps.Now())
		if err := deps.Outbox.Save(ctx, entry); err != nil {
			slog.Error("absence_notice_enqueue_failed", "student_id", st.ID, "error", err)
			continue
		}
		queued++
	}
	return queued
}

func (d SubmitMarksDeps) withDefaults() SubmitMarksDeps {
	if d.PeriodsPerDay <= 0 {
		d.PeriodsPerDay = attendance.DefaultPeriodsPerDay
	}
	if d.Concurrency <= 0 {
		d.Concurrency = DefaultMarkConcurrency
	}
	if d.GenerateID == nil {
		d.GenerateID = func() string { return uuid.New().String() }
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d SubmitMarksDeps) audit(ctx context.Context, e audit.Event) {
	if d.Audit == nil {
		return
	}
	if err := d.Audit.Save(ctx, e); err != nil {
		slog.Error("audit_save_failed", "action", e.Action, "error", err)
	}
}

func slotResourceID(s attendance.Slot) string {
	return fmt.Sprintf("%s-%d-%s/%s/%d", s.Class.Department, s.Class.Year, s.Class.Section, s.Date, s.Period)
}
