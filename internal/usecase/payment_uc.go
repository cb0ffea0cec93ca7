package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
)

var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase guides the applicant to a manual mobile-money payment. No
// money moves through this service; it only produces the instructions.
type PaymentUseCase interface {
	SelectAmount(ctx context.Context, sessionID string, kind model.OptionKind) (*model.FormSession, error)
	SelectChannel(ctx context.Context, sessionID, channel string) (*model.FormSession, error)
	Skip(ctx context.Context, sessionID string) (*model.FormSession, error)
	ContactLink(ctx context.Context, sessionID string) (string, error)
	Channels() []model.Channel
	DepositAmount() int64
}

// CompletionHook runs after a channel was selected. Its error is logged only.
type CompletionHook func(ctx context.Context, reg *model.Registration) error

type PaymentSettings struct {
	DepositAmount int64
	Currency      string
	DialDelay     time.Duration
	ContactPhone  string
}

type paymentUC struct {
	sessions   repository.SessionRepository
	notifier   adapter.Notifier
	device     adapter.DeviceActions
	catalog    *model.Catalog
	channels   []model.Channel
	settings   PaymentSettings
	tr         Translator
	onComplete CompletionHook
	log        *zerolog.Logger
	now        func() time.Time
}

func NewPaymentUseCase(
	sessions repository.SessionRepository,
	notifier adapter.Notifier,
	device adapter.DeviceActions,
	catalog *model.Catalog,
	channels []model.Channel,
	settings PaymentSettings,
	tr Translator,
	onComplete CompletionHook,
	logger *zerolog.Logger,
) *paymentUC {
	compLog := logger.With().Str("component", "PaymentUseCase").Logger()
	return &paymentUC{
		sessions:   sessions,
		notifier:   notifier,
		device:     device,
		catalog:    catalog,
		channels:   channels,
		settings:   settings,
		tr:         tr,
		onComplete: onComplete,
		log:        &compLog,
		now:        time.Now,
	}
}

func (u *paymentUC) Channels() []model.Channel {
	return append([]model.Channel(nil), u.channels...)
}

func (u *paymentUC) DepositAmount() int64 { return u.settings.DepositAmount }

func (u *paymentUC) channel(name string) (model.Channel, error) {
	for _, c := range u.channels {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Channel{}, fmt.Errorf("channel %q: %w", name, domain.ErrUnknownChannel)
}

func (u *paymentUC) SelectAmount(ctx context.Context, sessionID string, kind model.OptionKind) (*model.FormSession, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Desktop applicants land on "registered" and may still ask for the
	// payment instructions from there.
	if !(s.InPaymentFlow() || s.Phase == model.PhaseRegistered) || s.Record == nil {
		return s, domain.ErrInvalidState
	}
	if kind != model.OptionFull && kind != model.OptionDeposit {
		return s, fmt.Errorf("payment option %q: %w", kind, domain.ErrInvalidArgument)
	}
	opt := model.NewPaymentOption(kind, s.Record.Price, u.settings.DepositAmount)
	s.Option = &opt
	s.Phase = model.PhaseChoosingChannel
	return u.save(ctx, s)
}

func (u *paymentUC) SelectChannel(ctx context.Context, sessionID, channel string) (*model.FormSession, error) {
	ctx = logging.WithSessID(ctx, sessionID)
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Phase != model.PhaseChoosingChannel || s.Option == nil || s.Record == nil {
		return s, domain.ErrInvalidState
	}
	ch, err := u.channel(channel)
	if err != nil {
		return s, err
	}
	ctx = logging.WithRegistrationID(ctx, s.Record.ID)
	log := logging.With(ctx, u.log)

	now := u.now()
	opt := *s.Option
	metrics.IncPaymentAttempt(ch.Name, string(opt.Kind))
	delivery := u.notifier.Send(ctx, model.NotificationEvent{
		Kind:         model.EventPaymentAttempt,
		Registration: *s.Record,
		Option:       &opt,
		Channel:      ch.Name,
		OccurredAt:   now,
	})
	log.Info().Str("channel", ch.Name).Str("option", string(opt.Kind)).Bool("notified", delivery.Delivered).Msg("payment attempt")

	artifact := &model.ManualAction{
		Channel:      ch.Name,
		ChannelLabel: ch.Label,
		Amount:       opt.Amount,
		Account:      ch.Account,
	}
	if s.Device == model.DeviceMobile {
		code := ch.DialString(opt.Amount)
		artifact.DialString = code
		artifact.TelURI = model.TelURI(code)
		artifact.CopyText = code
		artifact.Instructions = u.tr.T("msg.payment_mobile", code)
		if err := u.device.Copy(ctx, code); err != nil {
			log.Warn().Err(err).Msg("copy to clipboard failed")
		}
		if err := u.device.Dial(ctx, artifact.TelURI, u.settings.DialDelay); err != nil {
			log.Warn().Err(err).Msg("opening the dialer failed")
		}
	} else {
		artifact.CopyText = ch.Account
		artifact.Instructions = u.tr.T("msg.payment_desktop",
			u.tr.Amount(opt.Amount), u.settings.Currency, ch.Account, ch.Label)
	}

	s.Channel = ch.Name
	s.Artifact = artifact
	s.Phase = model.PhaseConfirmed
	s.Message = u.tr.T("msg.confirmed")

	if u.onComplete != nil {
		if err := u.onComplete(ctx, s.Record); err != nil {
			log.Warn().Err(err).Msg("payment completion hook failed")
		}
	}
	return u.save(ctx, s)
}

func (u *paymentUC) Skip(ctx context.Context, sessionID string) (*model.FormSession, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.InPaymentFlow() {
		return s, domain.ErrInvalidState
	}
	s.Phase = model.PhaseContact
	s.Message = u.tr.T("msg.contact")
	s.ContactLink = contactLink(u.tr, u.catalog, u.settings.ContactPhone, s)
	return u.save(ctx, s)
}

func (u *paymentUC) ContactLink(ctx context.Context, sessionID string) (string, error) {
	s, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return contactLink(u.tr, u.catalog, u.settings.ContactPhone, s), nil
}

func (u *paymentUC) save(ctx context.Context, s *model.FormSession) (*model.FormSession, error) {
	s.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
