package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"training-registration/internal/infra/metrics"
)

type poolStater interface {
	Stat() *pgxpool.Stat
}

// PoolStatsWorker exports database pool gauges.
type PoolStatsWorker struct {
	interval time.Duration
	pool     poolStater
	log      *zerolog.Logger
}

func NewPoolStatsWorker(interval time.Duration, pool poolStater, logger *zerolog.Logger) *PoolStatsWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	compLog := logger.With().Str("component", "PoolStatsWorker").Logger()
	return &PoolStatsWorker{interval: interval, pool: pool, log: &compLog}
}

func (w *PoolStatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.collect()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *PoolStatsWorker) collect() {
	st := w.pool.Stat()
	if st == nil {
		return
	}
	metrics.SetDBPoolStats(metrics.PoolStats{
		Total:         st.TotalConns(),
		Idle:          st.IdleConns(),
		InUse:         st.AcquiredConns(),
		Max:           st.MaxConns(),
		EmptyAcquires: st.EmptyAcquireCount(),
	})
}
