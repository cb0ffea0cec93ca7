package adapter

import (
	"context"

	"training-registration/internal/domain/model"
)

// Notifier pushes staff notifications. It never fails the caller: the
// outcome is reported through model.Delivery.
type Notifier interface {
	Send(ctx context.Context, ev model.NotificationEvent) model.Delivery
}
