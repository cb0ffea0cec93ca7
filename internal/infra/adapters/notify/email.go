package notify

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"training-registration/internal/domain/ports/adapter"
)

// EmailComposeTransport opens a pre-filled mail draft on the applicant's
// device. Staff are not reached until the draft is sent, so the delivery is
// never reported as confirmed.
type EmailComposeTransport struct {
	to     string
	device adapter.DeviceActions
}

func NewEmailComposeTransport(to string, device adapter.DeviceActions) *EmailComposeTransport {
	return &EmailComposeTransport{to: to, device: device}
}

func (t *EmailComposeTransport) Name() string { return "email" }

// MailtoURI builds a mailto: link with an encoded subject and body.
func MailtoURI(to, subject, body string) string {
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	// mailto clients expect %20 rather than '+'.
	return "mailto:" + to + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

func (t *EmailComposeTransport) Deliver(ctx context.Context, msg Message) (bool, error) {
	if t.to == "" || t.device == nil {
		return false, errors.New("email compose is not configured")
	}
	if err := t.device.Open(ctx, MailtoURI(t.to, msg.Subject, msg.Text)); err != nil {
		return false, err
	}
	return false, nil
}
