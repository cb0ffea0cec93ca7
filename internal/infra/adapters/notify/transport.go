package notify

import (
	"context"

	"training-registration/internal/domain/model"
)

// Message is a formatted notification ready for a transport.
type Message struct {
	Event   model.EventKind
	Subject string
	Text    string
	Source  model.NotificationEvent
}

// Transport delivers a message over one channel. A nil error stops the chain;
// delivered=false means the transport handed the message to a human step
// (e.g. an email draft) without confirming delivery.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, msg Message) (delivered bool, err error)
}
