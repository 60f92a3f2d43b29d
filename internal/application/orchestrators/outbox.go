package orchestrators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"campus/internal/adapters/email"
	domain "campus/internal/domain/outbox"
)

// OutboxStore defines the outbox persistence needed by the processor.
type OutboxStore interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, now time.Time, limit int) ([]domain.Entry, error)
}

// ActionExecutor performs one kind of outbox action.
type ActionExecutor interface {
	// Execute runs the action for payload and returns the provider's id.
	Execute(ctx context.Context, payload string) (string, error)
}

// ErrEntryTerminal is returned when retrying an entry that will never run again.
var ErrEntryTerminal = errors.New("outbox entry is in a terminal state")

// OutboxProcessor delivers pending outbox entries with exponential backoff.
type OutboxProcessor struct {
	store     OutboxStore
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
	now       func() time.Time
}

// ProcessStats summarises one processing pass.
type ProcessStats struct {
	Delivered int
	Failed    int
	Deferred  int
}

// NewOutboxProcessor creates a processor.
// PRE: store is non-nil
// POST: Returns a processor with 30s base backoff capped at one hour
func NewOutboxProcessor(store OutboxStore, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  time.Hour,
		batchSize: 25,
		now:       time.Now,
	}
}

// ProcessPending attempts every due entry once.
// PRE: ctx is valid
// POST: Each due entry is attempted and saved with its new state
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (ProcessStats, error) {
	entries, err := p.store.ListPending(ctx, p.now(), p.batchSize)
	if err != nil {
		return ProcessStats{}, fmt.Errorf("list pending outbox entries: %w", err)
	}

	var stats ProcessStats
	for _, entry := range entries {
		if p.now().Before(entry.DueAt(p.baseDelay, p.maxDelay)) {
			stats.Deferred++
			continue
		}
		if err := p.attempt(ctx, &entry); err != nil {
			stats.Failed++
		} else {
			stats.Delivered++
		}
		if err := p.store.Save(ctx, entry); err != nil {
			slog.Error("outbox_save_failed", "entry_id", entry.ID, "error", err)
		}
	}
	return stats, nil
}

// RetryNow attempts one entry immediately regardless of backoff.
// PRE: id names an existing entry
// POST: Entry attempted and saved, or ErrEntryTerminal
func (p *OutboxProcessor) RetryNow(ctx context.Context, id string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry.IsTerminal() {
		return entry, ErrEntryTerminal
	}
	attemptErr := p.attempt(ctx, &entry)
	if err := p.store.Save(ctx, entry); err != nil {
		return entry, err
	}
	return entry, attemptErr
}

// Abandon stops further delivery of an entry.
func (p *OutboxProcessor) Abandon(ctx context.Context, id string) error {
	entry, err := p.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	entry.Abandon()
	return p.store.Save(ctx, entry)
}

func (p *OutboxProcessor) attempt(ctx context.Context, entry *domain.Entry) error {
	entry.RecordAttempt(p.now())
	executor, ok := p.executors[entry.ActionType]
	if !ok {
		err := fmt.Errorf("no executor registered for action type %q", entry.ActionType)
		entry.RecordFailure(err)
		entry.Abandon()
		slog.Error("outbox_action_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err)
		return err
	}
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.RecordFailure(err)
		entry.ScheduleNext(p.baseDelay, p.maxDelay)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "attempt", entry.Attempts, "error", err)
		return err
	}
	entry.RecordSuccess(externalID)
	slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	return nil
}

// StartOutboxWorker runs ProcessPending every interval until ctx is cancelled.
// PRE: interval > 0
// POST: Goroutine started; it exits when ctx is done
func StartOutboxWorker(ctx context.Context, p *OutboxProcessor, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats, err := p.ProcessPending(ctx)
				if err != nil {
					slog.Error("outbox_worker_error", "error", err)
					continue
				}
				if stats.Delivered+stats.Failed > 0 {
					slog.Info("outbox_worker_pass", "delivered", stats.Delivered, "failed", stats.Failed, "deferred", stats.Deferred)
				}
			}
		}
	}()
}

// AbsenceNoticeExecutor emails a student that they were marked absent.
type AbsenceNoticeExecutor struct {
	Sender   email.Sender
	Markdown goldmark.Markdown // nil means goldmark.New()
}

// Execute renders the notice and sends it.
// PRE: payload is a JSON AbsenceNotice
// POST: Email accepted by the sender; returns its message id
func (e *AbsenceNoticeExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var n AbsenceNotice
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return "", fmt.Errorf("unmarshal absence notice: %w", err)
	}
	if n.Email == "" {
		return "", errors.New("absence notice has no recipient")
	}
	html, err := e.render(n)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Marked absent: %s, period %d on %s", n.Subject, n.Period, n.Date)
	receipt, err := e.Sender.Send(ctx, email.Message{
		To:      []string{n.Email},
		Subject: subject,
		HTML:    html,
		Text:    absenceMarkdown(n),
	})
	if err != nil {
		return "", err
	}
	return receipt.MessageID, nil
}

func (e *AbsenceNoticeExecutor) render(n AbsenceNotice) (string, error) {
	md := e.Markdown
	if md == nil {
		md = goldmark.New()
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(absenceMarkdown(n)), &buf); err != nil {
		return "", fmt.Errorf("render absence notice: %w", err)
	}
	return buf.String(), nil
}

func absenceMarkdown(n AbsenceNotice) string {
	markedBy := n.MarkedBy
	if markedBy == "" {
		markedBy = "your faculty"
	}
	subject := n.Subject
	if subject == "" {
		subject = "class"
	}
	return fmt.Sprintf(`Hello %s,

You were marked **absent** for *%s* in period %d on %s by %s.

If this is wrong, contact your class advisor today. Records can only be corrected by the department office after the day ends.
`, n.Name, subject, n.Period, n.Date, markedBy)
}
