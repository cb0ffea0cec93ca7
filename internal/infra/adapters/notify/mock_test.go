//go:build !integration

package notify

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type mockTransport struct {
	name        string
	DeliverFunc func(ctx context.Context, msg Message) (bool, error)

	mu    sync.Mutex
	calls []Message
}

func (m *mockTransport) Name() string { return m.name }

func (m *mockTransport) Deliver(ctx context.Context, msg Message) (bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, msg)
	m.mu.Unlock()
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, msg)
	}
	return true, nil
}

func (m *mockTransport) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockDevice struct {
	OpenFunc func(ctx context.Context, uri string) error
	opened   []string
}

func (m *mockDevice) Copy(ctx context.Context, text string) error { return nil }
func (m *mockDevice) Dial(ctx context.Context, uri string, after time.Duration) error {
	return nil
}
func (m *mockDevice) Open(ctx context.Context, uri string) error {
	m.opened = append(m.opened, uri)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, uri)
	}
	return nil
}

type mockBot struct {
	SendFunc func(c tgbotapi.Chattable) (tgbotapi.Message, error)
	sent     []tgbotapi.Chattable
}

func (m *mockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	if m.SendFunc != nil {
		return m.SendFunc(c)
	}
	return tgbotapi.Message{}, nil
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, key string, p amqpPayload) error
	keys        []string
	payloads    []amqpPayload
}

func (m *mockPublisher) PublishEvent(ctx context.Context, key string, p amqpPayload) error {
	m.keys = append(m.keys, key)
	m.payloads = append(m.payloads, p)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, key, p)
	}
	return nil
}
