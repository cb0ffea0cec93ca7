package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/logging"
)

var _ FormUseCase = (*formUC)(nil)

// FormUseCase drives the multi-step form of one session.
type FormUseCase interface {
	Start(ctx context.Context, device model.Device) (*model.FormSession, error)
	Get(ctx context.Context, sessionID string) (*model.FormSession, error)
	SetField(ctx context.Context, sessionID, name string, value any) (*model.FormSession, error)
	Next(ctx context.Context, sessionID string) (*model.FormSession, error)
	Back(ctx context.Context, sessionID string) (*model.FormSession, error)
	Reset(ctx context.Context, sessionID string) (*model.FormSession, error)
	Catalog() *model.Catalog
}

type formUC struct {
	sessions repository.SessionRepository
	locker   adapter.Locker
	catalog  *model.Catalog
	lockTTL  time.Duration
	log      *zerolog.Logger
	now      func() time.Time
}

func NewFormUseCase(
	sessions repository.SessionRepository,
	locker adapter.Locker,
	catalog *model.Catalog,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *formUC {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	compLog := logger.With().Str("component", "FormUseCase").Logger()
	return &formUC{
		sessions: sessions,
		locker:   locker,
		catalog:  catalog,
		lockTTL:  lockTTL,
		log:      &compLog,
		now:      time.Now,
	}
}

func (u *formUC) Catalog() *model.Catalog { return u.catalog }

func (u *formUC) Start(ctx context.Context, device model.Device) (*model.FormSession, error) {
	if device == "" {
		device = model.DeviceDesktop
	}
	s := model.NewFormSession(uuid.NewString(), device, u.now())
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	logging.With(logging.WithSessID(ctx, s.ID), u.log).Info().Str("device", string(device)).Msg("form session started")
	return s, nil
}

func (u *formUC) Get(ctx context.Context, sessionID string) (*model.FormSession, error) {
	return u.sessions.Get(ctx, sessionID)
}

func (u *formUC) SetField(ctx context.Context, sessionID, name string, value any) (*model.FormSession, error) {
	return u.mutate(ctx, sessionID, func(s *model.FormSession) error {
		if s.Phase != model.PhaseFilling {
			return domain.ErrInvalidState
		}
		d, err := s.Draft.SetField(u.catalog, name, value)
		if err != nil {
			return err
		}
		s.Draft = d
		return nil
	})
}

func (u *formUC) Next(ctx context.Context, sessionID string) (*model.FormSession, error) {
	return u.mutate(ctx, sessionID, func(s *model.FormSession) error { return s.GoNext() })
}

func (u *formUC) Back(ctx context.Context, sessionID string) (*model.FormSession, error) {
	return u.mutate(ctx, sessionID, func(s *model.FormSession) error { return s.GoBack() })
}

func (u *formUC) Reset(ctx context.Context, sessionID string) (*model.FormSession, error) {
	return u.mutate(ctx, sessionID, func(s *model.FormSession) error {
		s.ResetDraft()
		return nil
	})
}

// mutate loads the session, applies fn and saves the result under the session
// lock, so an edit never overwrites the outcome of a concurrent submit.
// Nothing is written when fn fails.
func (u *formUC) mutate(ctx context.Context, sessionID string, fn func(s *model.FormSession) error) (*model.FormSession, error) {
	token, err := u.locker.TryLock(ctx, sessionLockKey(sessionID), u.lockTTL)
	if err != nil {
		logging.With(logging.WithSessID(ctx, sessionID), u.log).Debug().Err(err).Msg("form edit rejected: session busy")
		return nil, err
	}
	defer func() {
		if err := u.locker.Unlock(context.WithoutCancel(ctx), sessionLockKey(sessionID), token); err != nil {
			logging.With(logging.WithSessID(ctx, sessionID), u.log).Warn().Err(err).Msg("failed to release session lock")
		}
	}()

	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return s, err
	}
	s.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
