package repository

import (
	"context"

	"training-registration/internal/domain/model"
)

// FallbackStore is the local append-only store used when the primary store
// rejects a registration. It is read only for manual recovery.
type FallbackStore interface {
	Append(ctx context.Context, rec model.FallbackRecord) error
	List(ctx context.Context) ([]model.FallbackRecord, error)
}
