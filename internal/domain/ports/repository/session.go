package repository

import (
	"context"

	"training-registration/internal/domain/model"
)

// SessionRepository keeps form sessions between requests.
type SessionRepository interface {
	Save(ctx context.Context, s *model.FormSession) error
	Get(ctx context.Context, id string) (*model.FormSession, error)
	Delete(ctx context.Context, id string) error
}
