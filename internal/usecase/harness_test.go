//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"training-registration/internal/domain/model"
	"training-registration/internal/usecase"
)

const testContactPhone = "+228 96 93 39 95"

// harness wires every use case against in-memory collaborators.
type harness struct {
	sessions *MockSessionRepo
	regs     *MockRegistrationRepo
	fallback *MockFallbackStore
	notifier *MockNotifier
	device   *MockDevice
	locker   *MockLocker
	tm       *MockTxManager

	form    usecase.FormUseCase
	submit  usecase.SubmissionUseCase
	payment usecase.PaymentUseCase
	admin   usecase.RegistrationUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sessions: NewMockSessionRepo(),
		regs:     NewMockRegistrationRepo(),
		fallback: &MockFallbackStore{},
		notifier: &MockNotifier{Result: model.Delivery{Delivered: true, Transport: "relay_1"}},
		device:   &MockDevice{},
		locker:   NewMockLocker(),
		tm:       &MockTxManager{},
	}
	logger := newTestLogger()
	tr := newTestTranslator()
	cat := newTestCatalog()

	h.form = usecase.NewFormUseCase(h.sessions, h.locker, cat, time.Second, logger)
	h.submit = usecase.NewSubmissionUseCase(h.sessions, h.regs, h.fallback, h.notifier, h.locker, cat, tr, testContactPhone, time.Second, logger)
	h.admin = usecase.NewRegistrationUseCase(h.regs, h.fallback, h.tm, logger)
	h.payment = usecase.NewPaymentUseCase(h.sessions, h.notifier, h.device, cat, testChannels(), usecase.PaymentSettings{
		DepositAmount: 5000,
		Currency:      "FCFA",
		DialDelay:     3 * time.Second,
		ContactPhone:  testContactPhone,
	}, tr, h.admin.MarkPaymentInitiated, logger)
	return h
}

// fillForm walks a new session to the consent step with a complete draft.
func (h *harness) fillForm(t *testing.T, device model.Device) *model.FormSession {
	t.Helper()
	ctx := context.Background()
	s, err := h.form.Start(ctx, device)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	steps := [][][2]any{
		{{model.FieldFullName, "Aya Koffi"}, {model.FieldEmail, "Aya.Koffi@Example.com"}, {model.FieldPhone, "+228 90 11 22 33"}, {model.FieldCity, "Lomé"}},
		{{model.FieldTrainingCategory, "individuelle"}, {model.FieldSpecificTraining, "data-debutant"}},
		{{model.FieldDeliveryMode, "enligne"}, {model.FieldMotivation, "Automatiser mes rapports"}},
		{{model.FieldAcceptedTerms, true}},
	}
	for i, fields := range steps {
		for _, f := range fields {
			if s, err = h.form.SetField(ctx, s.ID, f[0].(string), f[1]); err != nil {
				t.Fatalf("SetField(%v): %v", f[0], err)
			}
		}
		if i < len(steps)-1 {
			if s, err = h.form.Next(ctx, s.ID); err != nil {
				t.Fatalf("Next from step %d: %v", i, err)
			}
		}
	}
	return s
}
