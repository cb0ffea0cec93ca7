package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/infra/adapters/device"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
	"training-registration/internal/infra/worker"
)

var _ adapter.Notifier = (*AsyncNotifier)(nil)

// AsyncNotifier hands events to a worker pool so callers never wait on the
// network. Events are dropped when the pool queue is full. Client actions
// attached to the caller's context stay reachable from the pool, so the
// email compose fallback records its mailto link on the same list; it only
// reaches the browser if the pool runs before the response is written.
type AsyncNotifier struct {
	inner   adapter.Notifier
	pool    *worker.Pool
	timeout time.Duration
	log     *zerolog.Logger
}

func NewAsyncNotifier(inner adapter.Notifier, pool *worker.Pool, timeout time.Duration, logger *zerolog.Logger) *AsyncNotifier {
	compLog := logger.With().Str("component", "AsyncNotifier").Logger()
	return &AsyncNotifier{inner: inner, pool: pool, timeout: timeout, log: &compLog}
}

func (a *AsyncNotifier) Send(ctx context.Context, ev model.NotificationEvent) model.Delivery {
	traceID := logging.TraceIDFrom(ctx)
	err := a.pool.Submit(func(poolCtx context.Context) error {
		sendCtx := device.Carry(ctx, logging.WithTraceID(poolCtx, traceID))
		if a.timeout > 0 {
			var cancel context.CancelFunc
			sendCtx, cancel = context.WithTimeout(sendCtx, a.timeout)
			defer cancel()
		}
		a.inner.Send(sendCtx, ev)
		return nil
	})
	if err != nil {
		logging.With(ctx, a.log).Warn().Err(err).Str("event", string(ev.Kind)).Msg("notification dropped")
		metrics.IncNotification(string(ev.Kind), "queue", "dropped")
		return model.Delivery{Delivered: false, Transport: "queue"}
	}
	return model.Delivery{Delivered: false, Transport: "queued"}
}
