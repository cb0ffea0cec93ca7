package notify

import (
	"time"

	"training-registration/internal/domain/model"
)

type translator interface {
	T(key string, args ...interface{}) string
	Amount(n int64) string
}

// Formatter renders notification events into staff-facing text.
type Formatter struct {
	tr            translator
	company       string
	currency      string
	channelLabels map[string]string
}

func NewFormatter(tr translator, company, currency string, channels []model.Channel) *Formatter {
	labels := make(map[string]string, len(channels))
	for _, c := range channels {
		labels[c.Name] = c.Label
	}
	return &Formatter{tr: tr, company: company, currency: currency, channelLabels: labels}
}

func (f *Formatter) Format(ev model.NotificationEvent) Message {
	msg := Message{
		Event:   ev.Kind,
		Subject: f.tr.T("notify.email_subject", f.company),
		Source:  ev,
	}
	r := ev.Registration
	switch ev.Kind {
	case model.EventNewRegistration:
		msg.Text = f.tr.T("notify.new_registration",
			f.company, r.FullName, r.Email, r.Phone, r.City,
			f.trainingLabel(r), f.tr.Amount(r.Price), f.currency,
			f.tr.T("mode."+string(r.DeliveryMode)))
	case model.EventPaymentAttempt:
		var amount int64
		kind := ""
		if ev.Option != nil {
			amount = ev.Option.Amount
			kind = f.optionLabel(*ev.Option)
		}
		msg.Text = f.tr.T("notify.payment_attempt",
			f.company, r.FullName, r.Phone, r.Email,
			kind, f.tr.Amount(amount), f.currency, f.channelLabel(ev.Channel))
	default:
		at := ev.OccurredAt
		if at.IsZero() {
			at = time.Now()
		}
		msg.Text = f.tr.T("notify.connection_test", f.company, at.Format("02/01/2006 15:04:05"))
	}
	return msg
}

func (f *Formatter) trainingLabel(r model.Registration) string {
	if r.TrainingLabel != "" {
		return r.TrainingLabel
	}
	return r.TrainingID
}

func (f *Formatter) optionLabel(o model.PaymentOption) string {
	if o.Kind == model.OptionDeposit {
		return f.tr.T("option.deposit", f.tr.Amount(o.Amount), f.currency)
	}
	return f.tr.T("option.full")
}

func (f *Formatter) channelLabel(name string) string {
	if l, ok := f.channelLabels[name]; ok && l != "" {
		return l
	}
	return name
}
