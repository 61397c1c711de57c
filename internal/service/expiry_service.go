package service

import (
	"context"
	"time"

	"martpos/internal/dto"
	"martpos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ExpirySweeper transitions expired active batches to their terminal state.
// Unlike Consume, a failure on one batch does not abort the others: each
// candidate runs in its own transaction, and the report carries whatever went
// wrong. Re-running right after a successful sweep finds no candidates.
type ExpirySweeper interface {
	Sweep(ctx context.Context, asOf time.Time) (*dto.SweepReport, error)
}

type expirySweeper struct {
	batches    repository.BatchRepository
	batchSvc   BatchService
	dispatcher AlertDispatcher
}

func NewExpirySweeper(batches repository.BatchRepository, batchSvc BatchService, dispatcher AlertDispatcher) ExpirySweeper {
	return &expirySweeper{batches: batches, batchSvc: batchSvc, dispatcher: dispatcher}
}

// Sweep selects active batches with stock whose expiry date lies strictly
// before the start of asOf's day, then expires each through the same
// single-batch path as SetStatus. No transaction spans the whole run.
func (s *expirySweeper) Sweep(ctx context.Context, asOf time.Time) (*dto.SweepReport, error) {
	cutoff := startOfDay(asOf)
	candidates, err := s.batches.ListExpiredCandidates(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := &dto.SweepReport{
		AsOf:           asOf.Format(time.RFC3339),
		CandidateCount: len(candidates),
	}

	for _, id := range candidates {
		// Read first so the report can carry the quantity removed; the
		// authoritative zeroing happens inside the transition's transaction.
		batch, err := s.batches.FindByID(ctx, id)
		if err != nil {
			report.Errors = append(report.Errors, dto.SweepError{BatchID: id.String(), Error: err.Error()})
			continue
		}
		removed := batch.CurrentQuantity

		resp, err := s.batchSvc.SetStatus(ctx, id, dto.SetBatchStatusRequest{
			Status:      "expired",
			Reason:      "expiry sweep as of " + cutoff.Format("2006-01-02"),
			PerformedBy: "system:expiry-sweep",
		})
		if err != nil {
			report.Errors = append(report.Errors, dto.SweepError{BatchID: id.String(), Error: err.Error()})
			continue
		}

		report.ExpiredCount++
		report.QuantityRemoved += removed
		report.BatchNumbers = append(report.BatchNumbers, resp.BatchNumber)

		if s.dispatcher != nil {
			payload := map[string]interface{}{
				"kind":         "batch_expired",
				"batch_id":     id.String(),
				"batch_number": resp.BatchNumber,
				"product_id":   resp.ProductID,
				"quantity":     removed,
			}
			if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
				log.Warn().Err(err).Str("batch_id", id.String()).Msg("failed to enqueue expiry alert")
			}
		}
	}

	log.Info().
		Int("candidates", report.CandidateCount).
		Int("expired", report.ExpiredCount).
		Int("quantity_removed", report.QuantityRemoved).
		Int("errors", len(report.Errors)).
		Msg("expiry sweep finished")

	return report, nil
}
