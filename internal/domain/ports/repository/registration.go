package repository

import (
	"context"

	"training-registration/internal/domain/model"
)

// RegistrationRepository is the primary store for submitted registrations.
type RegistrationRepository interface {
	Insert(ctx context.Context, tx Tx, r *model.Registration) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Registration, error)
	// ListAll returns registrations newest first.
	ListAll(ctx context.Context, tx Tx) ([]*model.Registration, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.RegistrationStatus) error
}
