package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
)

var _ SubmissionUseCase = (*submissionUC)(nil)

// SubmissionUseCase persists a completed draft.
type SubmissionUseCase interface {
	// Submit stores the draft of a session that reached the last step with
	// every step valid. Storage failures are absorbed into the session phase
	// (registered_degraded or submission_error); only gating errors and
	// session storage errors are returned.
	Submit(ctx context.Context, sessionID string) (*model.FormSession, error)
}

type submissionUC struct {
	sessions      repository.SessionRepository
	registrations repository.RegistrationRepository
	fallback      repository.FallbackStore
	notifier      adapter.Notifier
	locker        adapter.Locker
	catalog       *model.Catalog
	tr            Translator
	contactPhone  string
	lockTTL       time.Duration
	log           *zerolog.Logger
	now           func() time.Time
}

func NewSubmissionUseCase(
	sessions repository.SessionRepository,
	registrations repository.RegistrationRepository,
	fallback repository.FallbackStore,
	notifier adapter.Notifier,
	locker adapter.Locker,
	catalog *model.Catalog,
	tr Translator,
	contactPhone string,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *submissionUC {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	compLog := logger.With().Str("component", "SubmissionUseCase").Logger()
	return &submissionUC{
		sessions:      sessions,
		registrations: registrations,
		fallback:      fallback,
		notifier:      notifier,
		locker:        locker,
		catalog:       catalog,
		tr:            tr,
		contactPhone:  contactPhone,
		lockTTL:       lockTTL,
		log:           &compLog,
		now:           time.Now,
	}
}

// sessionLockKey guards every write to one session. Submit holds it for the
// whole store sequence and form edits take it for their read-modify-write.
func sessionLockKey(sessionID string) string { return "lock:session:" + sessionID }

func (u *submissionUC) Submit(ctx context.Context, sessionID string) (*model.FormSession, error) {
	ctx = logging.WithSessID(ctx, sessionID)
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "Submit")()

	token, err := u.locker.TryLock(ctx, sessionLockKey(sessionID), u.lockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("submission rejected: lock held")
		return nil, err
	}
	defer func() {
		if err := u.locker.Unlock(context.WithoutCancel(ctx), sessionLockKey(sessionID), token); err != nil {
			log.Warn().Err(err).Msg("failed to release submission lock")
		}
	}()

	// Load after locking so a submission that just finished is visible.
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.CanSubmit(); err != nil {
		return s, err
	}

	now := u.now()
	reg, err := model.NewRegistration(uuid.NewString(), s.Draft, u.catalog, now)
	if err != nil {
		return s, err
	}
	ctx = logging.WithRegistrationID(ctx, reg.ID)
	log = logging.With(ctx, u.log)

	// The insert may spend the whole request deadline. Everything after it
	// records an outcome and runs detached from the caller's cancellation.
	storeCtx := context.WithoutCancel(ctx)

	if insertErr := u.registrations.Insert(ctx, repository.NoTX, reg); insertErr != nil {
		log.Error().Err(insertErr).Msg("primary store rejected registration")
		u.degrade(storeCtx, s, reg, now)
	} else {
		metrics.IncRegistration("stored")
		s.Record = reg
		s.Draft = model.Draft{}
		delivery := u.notifier.Send(ctx, model.NotificationEvent{
			Kind:         model.EventNewRegistration,
			Registration: *reg,
			OccurredAt:   now,
		})
		log.Info().Bool("notified", delivery.Delivered).Str("transport", delivery.Transport).Msg("registration stored")

		if s.Device == model.DeviceMobile {
			s.Phase = model.PhaseChoosingAmount
			s.Message = u.tr.T("msg.registered_payment")
		} else {
			s.Phase = model.PhaseRegistered
			s.Message = u.tr.T("msg.registered")
			s.ContactLink = contactLink(u.tr, u.catalog, u.contactPhone, s)
		}
	}

	s.UpdatedAt = now
	if err := u.saveOutcome(storeCtx, s); err != nil {
		if s.Record == nil {
			return nil, err
		}
		// The registration is already stored; reporting an error here would
		// invite a resubmit and a second row.
		log.Error().Err(err).Str("phase", string(s.Phase)).Msg("registration stored but session not saved")
	}
	return s, nil
}

// saveOutcome persists the post-submit session, retrying once.
func (u *submissionUC) saveOutcome(ctx context.Context, s *model.FormSession) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = u.sessions.Save(ctx, s); err == nil {
			return nil
		}
	}
	return err
}

// degrade keeps the registration in the local fallback store. When that also
// fails the applicant is asked to get in touch directly.
func (u *submissionUC) degrade(ctx context.Context, s *model.FormSession, reg *model.Registration, now time.Time) {
	log := logging.With(ctx, u.log)
	rec := model.FallbackRecord{
		ID:           "fallback_" + ulid.Make().String(),
		Timestamp:    now,
		Registration: *reg,
	}
	if err := u.fallback.Append(ctx, rec); err != nil {
		log.Error().Err(err).Msg("fallback store rejected registration")
		metrics.IncRegistration("failed")
		s.Phase = model.PhaseSubmissionError
		s.Message = u.tr.T("msg.submission_error")
		s.ContactLink = contactLink(u.tr, u.catalog, u.contactPhone, s)
		return
	}

	log.Warn().Str("fallback_id", rec.ID).Msg("registration kept in fallback store")
	metrics.IncRegistration("degraded")
	s.Record = reg
	s.FallbackID = rec.ID
	s.Draft = model.Draft{}
	s.Phase = model.PhaseRegisteredDegraded
	s.Message = u.tr.T("msg.degraded")
	s.ContactLink = contactLink(u.tr, u.catalog, u.contactPhone, s)
}
