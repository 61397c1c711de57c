package worker

// expiry_cron.go
// Background goroutine that periodically runs the expiry sweep: active
// batches past their expiry date get transitioned to `expired` and their
// remaining quantity reversed from product stock. The sweep itself is
// idempotent, so overlapping ticks after a slow run are harmless.

import (
	"context"
	"time"

	"martpos/internal/service"

	"github.com/rs/zerolog/log"
)

// StartExpiryCron launches a goroutine that sweeps on the given interval.
// It respects the context for graceful shutdown. A sweep failure is logged
// and retried on the next tick — per-batch failures already stay inside the
// report and never abort the run.
func StartExpiryCron(ctx context.Context, sweeper service.ExpirySweeper, clock service.Clock, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	if clock == nil {
		clock = service.SystemClock()
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("expiry_cron: started")

		// One sweep at startup so a restart never leaves expired batches
		// sitting until the first tick.
		runSweep(ctx, sweeper, clock)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, sweeper, clock)
			}
		}
	}()
}

func runSweep(ctx context.Context, sweeper service.ExpirySweeper, clock service.Clock) {
	report, err := sweeper.Sweep(ctx, clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("expiry_cron: sweep failed")
		return
	}
	if report.ExpiredCount == 0 && len(report.Errors) == 0 {
		return
	}
	log.Info().
		Int("expired", report.ExpiredCount).
		Int("quantity_removed", report.QuantityRemoved).
		Int("errors", len(report.Errors)).
		Msg("expiry_cron: sweep completed")
}
