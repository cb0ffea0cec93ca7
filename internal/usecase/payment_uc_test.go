//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
)

// registeredSession returns a session that went through a successful submit.
func registeredSession(t *testing.T, h *harness, device model.Device) *model.FormSession {
	t.Helper()
	s := h.fillForm(t, device)
	out, err := h.submit.Submit(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return out
}

func TestPaymentUseCase_AyaKoffiScenario(t *testing.T) {
	ctx := context.Background()

	// --- Arrange ---
	h := newHarness(t)
	s := registeredSession(t, h, model.DeviceMobile)
	if s.Phase != model.PhaseChoosingAmount {
		t.Fatalf("expected choosing_amount, got %s", s.Phase)
	}

	// --- Act ---
	s, err := h.payment.SelectAmount(ctx, s.ID, model.OptionDeposit)
	if err != nil {
		t.Fatalf("SelectAmount: %v", err)
	}
	s, err = h.payment.SelectChannel(ctx, s.ID, "mixx")
	if err != nil {
		t.Fatalf("SelectChannel: %v", err)
	}

	// --- Assert ---
	if s.Phase != model.PhaseConfirmed {
		t.Errorf("expected confirmed, got %s", s.Phase)
	}
	if s.Option == nil || s.Option.Amount != 5000 {
		t.Errorf("expected a 5000 deposit, got %+v", s.Option)
	}
	wantCode := "*145*1*5000*91383066*2#"
	if s.Artifact == nil || s.Artifact.DialString != wantCode || s.Artifact.TelURI != "tel:*145*1*5000*91383066*2%23" {
		t.Errorf("unexpected artifact %+v", s.Artifact)
	}
	if len(h.device.Copied) != 1 || h.device.Copied[0] != wantCode {
		t.Errorf("expected the code on the clipboard, got %v", h.device.Copied)
	}
	if len(h.device.Delays) != 1 || h.device.Delays[0] != 3*time.Second {
		t.Errorf("expected the dialer after 3s, got %v", h.device.Delays)
	}

	evs := h.notifier.events()
	if len(evs) != 2 || evs[1].Kind != model.EventPaymentAttempt || evs[1].Channel != "mixx" || evs[1].Option.Amount != 5000 {
		t.Errorf("unexpected events %+v", evs)
	}
	if evs[1].Registration.FullName != "Aya Koffi" || evs[1].Registration.Price != 25000 {
		t.Errorf("unexpected registration snapshot %+v", evs[1].Registration)
	}

	reg, _ := h.regs.FindByID(ctx, nil, s.Record.ID)
	if reg.Status != model.StatusPaymentInitiated {
		t.Errorf("expected payment_initiated, got %s", reg.Status)
	}
}

func TestPaymentUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("should replace the previous amount choice", func(t *testing.T) {
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceMobile)

		s, _ = h.payment.SelectAmount(ctx, s.ID, model.OptionDeposit)
		s, err := h.payment.SelectAmount(ctx, s.ID, model.OptionFull)

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if s.Option.Kind != model.OptionFull || s.Option.Amount != 25000 {
			t.Errorf("unexpected option %+v", s.Option)
		}
	})

	t.Run("should build the flooz code for the full price", func(t *testing.T) {
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceMobile)
		s, _ = h.payment.SelectAmount(ctx, s.ID, model.OptionFull)

		s, err := h.payment.SelectChannel(ctx, s.ID, "flooz")

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if s.Artifact.DialString != "*155*1*1*96933995*96933995*25000#" {
			t.Errorf("unexpected code %s", s.Artifact.DialString)
		}
	})

	t.Run("should give desktop applicants copyable instructions", func(t *testing.T) {
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceDesktop)
		s, err := h.payment.SelectAmount(ctx, s.ID, model.OptionDeposit)
		if err != nil {
			t.Fatalf("SelectAmount from registered: %v", err)
		}

		s, err = h.payment.SelectChannel(ctx, s.ID, "flooz")

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if s.Artifact.DialString != "" || s.Artifact.CopyText != "96933995" {
			t.Errorf("unexpected artifact %+v", s.Artifact)
		}
		if !strings.Contains(s.Artifact.Instructions, "5,000 FCFA") || !strings.Contains(s.Artifact.Instructions, "96933995") {
			t.Errorf("unexpected instructions %q", s.Artifact.Instructions)
		}
		if len(h.device.Copied)+len(h.device.Dialed) != 0 {
			t.Error("desktop flow must not drive the device")
		}
	})

	t.Run("should confirm even when every side effect fails", func(t *testing.T) {
		// --- Arrange ---
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceMobile)
		h.notifier.Result = model.Delivery{Delivered: false, Transport: "none"}
		h.device.CopyFunc = func(ctx context.Context, text string) error { return errors.New("clipboard denied") }
		h.device.DialFunc = func(ctx context.Context, uri string, after time.Duration) error { return errors.New("no dialer") }
		h.tm.WithTxFunc = func(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
			return errors.New("database unavailable")
		}
		s, _ = h.payment.SelectAmount(ctx, s.ID, model.OptionDeposit)

		// --- Act ---
		s, err := h.payment.SelectChannel(ctx, s.ID, "mixx")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if s.Phase != model.PhaseConfirmed || s.Artifact == nil {
			t.Errorf("expected confirmed with an artifact, got %+v", s)
		}
	})

	t.Run("should reject unknown channels and out-of-flow calls", func(t *testing.T) {
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceMobile)

		if _, err := h.payment.SelectChannel(ctx, s.ID, "mixx"); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("channel before amount: expected ErrInvalidState, got %v", err)
		}
		_, _ = h.payment.SelectAmount(ctx, s.ID, model.OptionDeposit)
		if _, err := h.payment.SelectChannel(ctx, s.ID, "tmoney"); !errors.Is(err, domain.ErrUnknownChannel) {
			t.Errorf("expected ErrUnknownChannel, got %v", err)
		}

		filling, _ := h.form.Start(ctx, model.DeviceMobile)
		if _, err := h.payment.SelectAmount(ctx, filling.ID, model.OptionFull); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("amount while filling: expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("should skip to the contact screen", func(t *testing.T) {
		h := newHarness(t)
		s := registeredSession(t, h, model.DeviceMobile)

		s, err := h.payment.Skip(ctx, s.ID)

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if s.Phase != model.PhaseContact {
			t.Errorf("expected contact, got %s", s.Phase)
		}
		if !strings.HasPrefix(s.ContactLink, "https://wa.me/22896933995?text=") || !strings.Contains(s.ContactLink, "Aya+Koffi") {
			t.Errorf("unexpected link %q", s.ContactLink)
		}
		if _, err := h.payment.Skip(ctx, s.ID); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("second skip: expected ErrInvalidState, got %v", err)
		}
	})
}
