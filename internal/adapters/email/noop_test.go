package email

import (
	"context"
	"errors"
	"testing"
)

// TestNoopSender_RecordsMessages verifies messages are kept and numbered.
func TestNoopSender_RecordsMessages(t *testing.T) {
	s := NewNoopSender()
	r, err := s.Send(context.Background(), Message{To: []string{"a@college.test"}, Subject: "Absent"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if r.MessageID != "noop-1" {
		t.Errorf("MessageID = %q", r.MessageID)
	}
	if got := s.Sent(); len(got) != 1 || got[0].Subject != "Absent" {
		t.Errorf("Sent = %+v", got)
	}
	if _, err := s.Send(context.Background(), Message{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("error = %v, want ErrNoRecipients", err)
	}
}

// TestFirstNonEmpty verifies default address fallback.
func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "office@college.test"); got != "office@college.test" {
		t.Errorf("got %q", got)
	}
	if got := firstNonEmpty("hod@college.test", "office@college.test"); got != "hod@college.test" {
		t.Errorf("got %q", got)
	}
}
