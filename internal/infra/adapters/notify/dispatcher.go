package notify

import (
	"context"

	"github.com/rs/zerolog"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
)

const transportNone = "none"

var _ adapter.Notifier = (*Dispatcher)(nil)

// Dispatcher formats an event and walks an ordered transport list until one
// of them accepts the message. It never returns an error to the caller.
type Dispatcher struct {
	formatter  *Formatter
	transports []Transport
	log        *zerolog.Logger
}

// NewDispatcher builds a dispatcher. An empty transport list turns Send into a
// no-op that reports success.
func NewDispatcher(formatter *Formatter, transports []Transport, logger *zerolog.Logger) *Dispatcher {
	compLog := logger.With().Str("component", "NotifyDispatcher").Logger()
	return &Dispatcher{formatter: formatter, transports: transports, log: &compLog}
}

func (d *Dispatcher) Transports() []string {
	names := make([]string, 0, len(d.transports))
	for _, t := range d.transports {
		names = append(names, t.Name())
	}
	return names
}

func (d *Dispatcher) Send(ctx context.Context, ev model.NotificationEvent) model.Delivery {
	log := logging.With(ctx, d.log)
	event := string(ev.Kind)

	if len(d.transports) == 0 {
		log.Debug().Str("event", event).Msg("no notification transport configured; skipping")
		metrics.IncNotification(event, transportNone, "skipped")
		return model.Delivery{Delivered: true, Transport: transportNone}
	}

	msg := d.formatter.Format(ev)
	for _, t := range d.transports {
		delivered, err := t.Deliver(ctx, msg)
		if err != nil {
			log.Warn().Err(err).Str("event", event).Str("transport", t.Name()).Msg("notification attempt failed")
			metrics.IncNotification(event, t.Name(), "failed")
			continue
		}
		result := "delivered"
		if !delivered {
			result = "handed_off"
		}
		log.Info().Str("event", event).Str("transport", t.Name()).Bool("delivered", delivered).Msg("notification sent")
		metrics.IncNotification(event, t.Name(), result)
		return model.Delivery{Delivered: delivered, Transport: t.Name()}
	}

	log.Error().Str("event", event).Msg("all notification transports failed")
	return model.Delivery{Delivered: false, Transport: transportNone}
}
