package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes fn inside a database transaction, passing the
// handle through tx. Repositories accept NoTX for the non-transactional path
// and lock rows (FOR UPDATE) when a transaction handle is given.
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx Tx) error {
//		r, err := registrations.FindByID(ctx, tx, id)
//		...
//		return registrations.UpdateStatus(ctx, tx, id, status)
//	})
//
// Work registered with AfterCommit on the callback's ctx runs only once the
// transaction has committed.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithCommitHooks returns a context collecting AfterCommit callbacks and the
// function that runs them in registration order. A TransactionManager calls
// run after a successful commit and drops the hooks otherwise.
func WithCommitHooks(ctx context.Context) (hooked context.Context, run func(ctx context.Context)) {
	h := &commitHooks{}
	run = func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, commitHooksKey{}, h), run
}

// AfterCommit defers fn until the transaction carried by ctx commits. It
// returns false when ctx carries no transaction; the caller then runs fn
// itself.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) bool {
	h, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		return false
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
	return true
}
