package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
)

var _ repository.RegistrationRepository = (*registrationRepo)(nil)

type registrationRepo struct{ pool *pgxpool.Pool }

func NewRegistrationRepo(pool *pgxpool.Pool) *registrationRepo {
	return &registrationRepo{pool: pool}
}

const registrationColumns = `id, full_name, email, phone, city, training_category, training_id, training_label, price, delivery_mode, motivation, interests, accepted_terms, status, created_at, updated_at`

func (r *registrationRepo) Insert(ctx context.Context, tx repository.Tx, reg *model.Registration) error {
	if reg == nil || reg.ID == "" {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO registrations (` + registrationColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16);`

	interests := reg.Interests
	if interests == nil {
		interests = []string{}
	}
	_, err := execSQL(ctx, r.pool, tx, q,
		reg.ID, reg.FullName, reg.Email, reg.Phone, reg.City,
		string(reg.TrainingCategory), reg.TrainingID, reg.TrainingLabel, reg.Price,
		string(reg.DeliveryMode), reg.Motivation, interests, reg.AcceptedTerms,
		string(reg.Status), reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return fmt.Errorf("insert registration: %v: %w", err, domain.ErrOperationFailed)
	}
	return nil
}

func (r *registrationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Registration, error) {
	q := withLock(`SELECT `+registrationColumns+` FROM registrations WHERE id=$1`, tx)
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return reg, nil
}

func (r *registrationRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	out := make([]*model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

func (r *registrationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RegistrationStatus) error {
	const q = `UPDATE registrations SET status=$2, updated_at=NOW() WHERE id=$1;`
	ct, err := execSQL(ctx, r.pool, tx, q, id, string(status))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var (
		reg               model.Registration
		category, mode, s string
	)
	if err := row.Scan(
		&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.City,
		&category, &reg.TrainingID, &reg.TrainingLabel, &reg.Price,
		&mode, &reg.Motivation, &reg.Interests, &reg.AcceptedTerms,
		&s, &reg.CreatedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.TrainingCategory = model.Category(category)
	reg.DeliveryMode = model.DeliveryMode(mode)
	reg.Status = model.RegistrationStatus(s)
	return &reg, nil
}
