//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
)

func TestRegistrationUseCase(t *testing.T) {
	ctx := context.Background()
	seed := func(h *harness, id string, status model.RegistrationStatus, at time.Time) {
		_ = h.regs.Insert(ctx, nil, &model.Registration{ID: id, FullName: id, Status: status, CreatedAt: at})
	}

	t.Run("should list newest first", func(t *testing.T) {
		h := newHarness(t)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		seed(h, "old", model.StatusPending, base)
		seed(h, "new", model.StatusPending, base.Add(time.Hour))

		list, err := h.admin.List(ctx)

		if err != nil || len(list) != 2 || list[0].ID != "new" {
			t.Errorf("unexpected list %+v err %v", list, err)
		}
	})

	t.Run("should update the status in a transaction", func(t *testing.T) {
		h := newHarness(t)
		seed(h, "r1", model.StatusPending, time.Now())

		reg, err := h.admin.UpdateStatus(ctx, "r1", model.StatusPaid)

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		stored, _ := h.regs.FindByID(ctx, nil, "r1")
		if reg.Status != model.StatusPaid || stored.Status != model.StatusPaid {
			t.Errorf("status not updated: %s / %s", reg.Status, stored.Status)
		}
	})

	t.Run("should keep cancelled registrations final", func(t *testing.T) {
		h := newHarness(t)
		seed(h, "r1", model.StatusCancelled, time.Now())

		_, err := h.admin.UpdateStatus(ctx, "r1", model.StatusPaid)

		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("should propagate transaction failures", func(t *testing.T) {
		h := newHarness(t)
		seed(h, "r1", model.StatusPending, time.Now())
		h.tm.WithTxFunc = func(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
			return errors.New("tx begin failed")
		}

		if _, err := h.admin.UpdateStatus(ctx, "r1", model.StatusPaid); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("should only mark pending registrations as payment initiated", func(t *testing.T) {
		h := newHarness(t)
		seed(h, "pending", model.StatusPending, time.Now())
		seed(h, "paid", model.StatusPaid, time.Now())

		_ = h.admin.MarkPaymentInitiated(ctx, &model.Registration{ID: "pending"})
		_ = h.admin.MarkPaymentInitiated(ctx, &model.Registration{ID: "paid"})

		p, _ := h.regs.FindByID(ctx, nil, "pending")
		q, _ := h.regs.FindByID(ctx, nil, "paid")
		if p.Status != model.StatusPaymentInitiated || q.Status != model.StatusPaid {
			t.Errorf("unexpected statuses %s / %s", p.Status, q.Status)
		}
		if err := h.admin.MarkPaymentInitiated(ctx, &model.Registration{ID: "fallback-only"}); err != nil {
			t.Errorf("missing rows are ignored, got %v", err)
		}
	})

	t.Run("should expose fallback records", func(t *testing.T) {
		h := newHarness(t)
		_ = h.fallback.Append(ctx, model.FallbackRecord{ID: "fallback_01H"})

		recs, err := h.admin.Fallback(ctx)

		if err != nil || len(recs) != 1 {
			t.Errorf("unexpected records %+v err %v", recs, err)
		}
	})
}
