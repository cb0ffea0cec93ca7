package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"training-registration/internal/domain/model"
)

var (
	ErrPublisherClosed = errors.New("staff event publisher is closed")
	ErrPublishNacked   = errors.New("broker refused staff event")
)

// StaffPublisher sends staff notification events to a durable topic exchange
// with publisher confirms on, so a delivery is reported only once the broker
// has taken the message.
type StaffPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	closed   bool
}

func NewStaffPublisher(url, exchange string) (*StaffPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial staff event broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open staff event channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	return &StaffPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishEvent publishes p under key and waits for the broker confirm. The
// registration id and event kind travel as message id and type so consumers
// can deduplicate without parsing the body.
func (p *StaffPublisher) PublishEvent(ctx context.Context, key string, payload amqpPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", payload.Kind, err)
	}

	p.mu.Lock()
	if p.closed || p.ch.IsClosed() {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    payload.Registration.ID,
		Type:         string(payload.Kind),
		AppId:        "training-registration",
		Timestamp:    payload.OccurredAt,
		Body:         body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", payload.Kind, p.exchange, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm for %s: %w", payload.Kind, err)
	}
	if !acked {
		return fmt.Errorf("%w: %s", ErrPublishNacked, payload.Kind)
	}
	return nil
}

// Close closes the channel and the connection. Later publishes fail with
// ErrPublisherClosed.
func (p *StaffPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.ch.Close()
	return p.conn.Close()
}

type eventPublisher interface {
	PublishEvent(ctx context.Context, key string, payload amqpPayload) error
}

// amqpPayload is the message body consumers receive.
type amqpPayload struct {
	Kind         model.EventKind      `json:"kind"`
	Text         string               `json:"text"`
	Registration model.Registration   `json:"registration"`
	Option       *model.PaymentOption `json:"option,omitempty"`
	Channel      string               `json:"channel,omitempty"`
	OccurredAt   time.Time            `json:"occurredAt"`
}

// AMQPTransport publishes the formatted event so other services can act on it.
type AMQPTransport struct {
	pub        eventPublisher
	routingKey string
}

func NewAMQPTransport(pub eventPublisher, routingKey string) *AMQPTransport {
	return &AMQPTransport{pub: pub, routingKey: routingKey}
}

func (t *AMQPTransport) Name() string { return "amqp" }

func (t *AMQPTransport) Deliver(ctx context.Context, msg Message) (bool, error) {
	ev := msg.Source
	err := t.pub.PublishEvent(ctx, t.routingKey, amqpPayload{
		Kind:         msg.Event,
		Text:         msg.Text,
		Registration: ev.Registration,
		Option:       ev.Option,
		Channel:      ev.Channel,
		OccurredAt:   ev.OccurredAt,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
