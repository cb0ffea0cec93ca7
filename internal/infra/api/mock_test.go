//go:build !integration

package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/infra/adapters/device"
	"training-registration/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// --- Mock use cases ---

type mockFormUC struct {
	usecase.FormUseCase
	mu       sync.Mutex
	sessions map[string]*model.FormSession
	catalog  *model.Catalog
	SetFunc  func(id, name string, value any) (*model.FormSession, error)
	NextFunc func(id string) (*model.FormSession, error)
}

func newMockFormUC() *mockFormUC {
	return &mockFormUC{sessions: map[string]*model.FormSession{}}
}

func (m *mockFormUC) Start(_ context.Context, dev model.Device) (*model.FormSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := model.NewFormSession("sess-1", dev, time.Now())
	m.sessions[s.ID] = s
	return s, nil
}

func (m *mockFormUC) Get(_ context.Context, id string) (*model.FormSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockFormUC) SetField(_ context.Context, id, name string, value any) (*model.FormSession, error) {
	if m.SetFunc != nil {
		return m.SetFunc(id, name, value)
	}
	return nil, domain.ErrNotFound
}

func (m *mockFormUC) Next(_ context.Context, id string) (*model.FormSession, error) {
	if m.NextFunc != nil {
		return m.NextFunc(id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockFormUC) Catalog() *model.Catalog { return m.catalog }

type mockSubmissionUC struct {
	SubmitFunc func(ctx context.Context, id string) (*model.FormSession, error)
}

func (m *mockSubmissionUC) Submit(ctx context.Context, id string) (*model.FormSession, error) {
	return m.SubmitFunc(ctx, id)
}

type mockPaymentUC struct {
	usecase.PaymentUseCase
	SelectAmountFunc  func(id string, kind model.OptionKind) (*model.FormSession, error)
	SelectChannelFunc func(ctx context.Context, id, channel string) (*model.FormSession, error)
	channels          []model.Channel
}

func (m *mockPaymentUC) SelectAmount(_ context.Context, id string, kind model.OptionKind) (*model.FormSession, error) {
	return m.SelectAmountFunc(id, kind)
}

func (m *mockPaymentUC) SelectChannel(ctx context.Context, id, channel string) (*model.FormSession, error) {
	return m.SelectChannelFunc(ctx, id, channel)
}

func (m *mockPaymentUC) Channels() []model.Channel { return m.channels }
func (m *mockPaymentUC) DepositAmount() int64      { return 5000 }

type mockRegistrationUC struct {
	usecase.RegistrationUseCase
	ListFunc         func() ([]*model.Registration, error)
	UpdateStatusFunc func(id string, status model.RegistrationStatus) (*model.Registration, error)
}

func (m *mockRegistrationUC) List(context.Context) ([]*model.Registration, error) {
	return m.ListFunc()
}

func (m *mockRegistrationUC) UpdateStatus(_ context.Context, id string, status model.RegistrationStatus) (*model.Registration, error) {
	return m.UpdateStatusFunc(id, status)
}

// --- Mock rate limiter ---

type mockLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (m *mockLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[key]++
	return m.counts[key] <= limit, nil
}

// recordDial emulates the payment use case pushing client effects.
func recordDial(ctx context.Context, code string) {
	rec := device.Recorder{}
	_ = rec.Copy(ctx, code)
	_ = rec.Dial(ctx, model.TelURI(code), 1500*time.Millisecond)
}
