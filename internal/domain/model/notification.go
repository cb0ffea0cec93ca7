package model

import "time"

type EventKind string

const (
	EventNewRegistration EventKind = "new_registration"
	EventPaymentAttempt  EventKind = "payment_attempt"
	EventConnectionTest  EventKind = "connection_test"
)

// NotificationEvent is sent to staff. Delivery is best-effort.
type NotificationEvent struct {
	Kind         EventKind      `json:"kind"`
	Registration Registration   `json:"registration"`
	Option       *PaymentOption `json:"option,omitempty"`
	Channel      string         `json:"channel,omitempty"`
	OccurredAt   time.Time      `json:"occurredAt"`
}

// Delivery is the outcome of a dispatch attempt.
type Delivery struct {
	Delivered bool   `json:"delivered"`
	Transport string `json:"transport"`
}

type ClientActionKind string

const (
	ActionCopy ClientActionKind = "copy"
	ActionDial ClientActionKind = "dial"
	ActionOpen ClientActionKind = "open"
)

// ClientAction is a side effect only the applicant's device can perform.
type ClientAction struct {
	Kind    ClientActionKind `json:"kind"`
	Value   string           `json:"value"`
	DelayMS int64            `json:"delayMs,omitempty"`
}
