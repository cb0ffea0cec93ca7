package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
)

var _ RegistrationUseCase = (*registrationUC)(nil)

// RegistrationUseCase is the staff-facing view of stored registrations.
type RegistrationUseCase interface {
	List(ctx context.Context) ([]*model.Registration, error)
	Get(ctx context.Context, id string) (*model.Registration, error)
	UpdateStatus(ctx context.Context, id string, status model.RegistrationStatus) (*model.Registration, error)
	// MarkPaymentInitiated moves a pending registration to payment_initiated.
	// Other statuses are left untouched.
	MarkPaymentInitiated(ctx context.Context, reg *model.Registration) error
	Fallback(ctx context.Context) ([]model.FallbackRecord, error)
}

type registrationUC struct {
	registrations repository.RegistrationRepository
	fallback      repository.FallbackStore
	tm            repository.TransactionManager
	log           *zerolog.Logger
	now           func() time.Time
}

func NewRegistrationUseCase(registrations repository.RegistrationRepository, fallback repository.FallbackStore, tm repository.TransactionManager, logger *zerolog.Logger) *registrationUC {
	compLog := logger.With().Str("component", "RegistrationUseCase").Logger()
	return &registrationUC{registrations: registrations, fallback: fallback, tm: tm, log: &compLog, now: time.Now}
}

func (u *registrationUC) List(ctx context.Context) ([]*model.Registration, error) {
	return u.registrations.ListAll(ctx, repository.NoTX)
}

func (u *registrationUC) Get(ctx context.Context, id string) (*model.Registration, error) {
	return u.registrations.FindByID(ctx, repository.NoTX, id)
}

func (u *registrationUC) UpdateStatus(ctx context.Context, id string, status model.RegistrationStatus) (*model.Registration, error) {
	var out *model.Registration
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		reg, err := u.registrations.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		from := reg.Status
		if err := reg.TransitionTo(status, u.now()); err != nil {
			return err
		}
		if from != reg.Status {
			if err := u.registrations.UpdateStatus(ctx, tx, id, reg.Status); err != nil {
				return err
			}
		}
		out = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.With(logging.WithRegistrationID(ctx, id), u.log).Info().Str("status", string(status)).Msg("registration status updated")
	return out, nil
}

func (u *registrationUC) MarkPaymentInitiated(ctx context.Context, reg *model.Registration) error {
	if reg == nil {
		return domain.ErrInvalidArgument
	}
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		cur, err := u.registrations.FindByID(ctx, tx, reg.ID)
		if err != nil {
			return err
		}
		if cur.Status != model.StatusPending {
			return nil
		}
		return u.registrations.UpdateStatus(ctx, tx, reg.ID, model.StatusPaymentInitiated)
	})
	if errors.Is(err, domain.ErrNotFound) {
		// Registrations kept only in the fallback store have no row to update.
		return nil
	}
	return err
}

func (u *registrationUC) Fallback(ctx context.Context) ([]model.FallbackRecord, error) {
	recs, err := u.fallback.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetFallbackRecords(len(recs))
	return recs, nil
}
