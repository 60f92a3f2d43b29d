package email

import (
	"context"
	"time"
)

// Message is one outgoing email.
type Message struct {
	To      []string
	From    string // empty means the sender's default
	ReplyTo string
	Subject string
	HTML    string
	Text    string // plain-text alternative
}

// Receipt is the provider's acknowledgement of a message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
