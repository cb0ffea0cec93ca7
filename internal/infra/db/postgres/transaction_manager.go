package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"training-registration/internal/domain"
	"training-registration/internal/domain/ports/repository"
)

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager runs admin status changes on the registrations table inside one
// pgx transaction. Cache invalidations registered through
// repository.AfterCommit fire only after Commit succeeds.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	hooked, runHooks := repository.WithCommitHooks(ctx)
	if err := fn(hooked, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registration tx: %w", err)
	}
	runHooks(context.WithoutCancel(ctx))
	return nil
}

// executor is the query surface shared by the pool, a pooled connection and
// an open transaction.
type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// getExecutor resolves the handle a repository method was given. NoTX runs
// against the pool.
func getExecutor(pool *pgxpool.Pool, tx repository.Tx) (executor, error) {
	switch v := tx.(type) {
	case pgx.Tx:
		return v, nil
	case *pgxpool.Conn:
		return v, nil
	case *pgxpool.Pool:
		return v, nil
	case nil:
		if pool == nil {
			return nil, fmt.Errorf("%w: no pool for a non-transactional call", domain.ErrInvalidArgument)
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("%w: unsupported handle %T", domain.ErrInvalidExecContext, tx)
	}
}
