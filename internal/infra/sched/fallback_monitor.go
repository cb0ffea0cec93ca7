package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/metrics"
)

// FallbackMonitor reports how many registrations wait in the fallback store
// for manual recovery.
type FallbackMonitor struct {
	interval time.Duration
	store    repository.FallbackStore
	log      *zerolog.Logger
	last     int
}

func NewFallbackMonitor(interval time.Duration, store repository.FallbackStore, logger *zerolog.Logger) *FallbackMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	compLog := logger.With().Str("component", "FallbackMonitor").Logger()
	return &FallbackMonitor{interval: interval, store: store, log: &compLog}
}

func (w *FallbackMonitor) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting fallback monitor")
	// Run once on startup, then on every tick
	w.check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping fallback monitor")
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *FallbackMonitor) check(ctx context.Context) {
	recs, err := w.store.List(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("fallback store check failed")
		return
	}
	n := len(recs)
	metrics.SetFallbackRecords(n)
	if n > w.last {
		w.log.Warn().Int("count", n).Int("new", n-w.last).Msg("registrations waiting in fallback store")
	}
	w.last = n
}
