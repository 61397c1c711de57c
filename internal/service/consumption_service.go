package service

import (
	"context"

	"martpos/internal/dto"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumptionService is the FIFO engine: it satisfies an outbound quantity
// from a product's batches strictly oldest-first, all-or-nothing.
type ConsumptionService interface {
	Consume(ctx context.Context, req dto.ConsumeRequest) (*dto.ConsumptionResult, error)
}

type consumptionService struct {
	batches    repository.BatchRepository
	products   repository.ProductRepository
	ledger     repository.StockLedgerRepository
	clock      Clock
	dispatcher AlertDispatcher
}

func NewConsumptionService(
	batches repository.BatchRepository,
	products repository.ProductRepository,
	ledger repository.StockLedgerRepository,
	clock Clock,
	dispatcher AlertDispatcher,
) ConsumptionService {
	if clock == nil {
		clock = SystemClock()
	}
	return &consumptionService{
		batches:    batches,
		products:   products,
		ledger:     ledger,
		clock:      clock,
		dispatcher: dispatcher,
	}
}

// ── Consume ───────────────────────────────────────────────────────────────────
// Candidates: active batches with available quantity whose expiry date is
// unset or still in the future, ordered by purchase date then creation order.
// The walk takes min(remaining, available) from each batch, flips depleted at
// zero, and writes one `sale` ledger entry per batch touched with stepwise
// product-stock snapshots. The product total is decremented once, by the full
// requested quantity. Product row and candidate rows are locked FOR UPDATE so
// a concurrent consumer cannot act on stale availability — if the commit
// still loses a race, the caller sees a retryable Conflict.

func (s *consumptionService) Consume(ctx context.Context, req dto.ConsumeRequest) (*dto.ConsumptionResult, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalidArgumentf("product_id is not a valid uuid")
	}
	if req.Quantity <= 0 {
		return nil, invalidArgumentf("quantity must be positive, got %d", req.Quantity)
	}

	now := s.clock.Now()
	result := &dto.ConsumptionResult{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		product, err := s.products.FindByIDForUpdateTx(tx, productID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}

		candidates, err := s.batches.FindConsumableTx(tx, productID, now)
		if err != nil {
			return err
		}

		available := 0
		for i := range candidates {
			available += candidates[i].AvailableQuantity()
		}
		if available < req.Quantity {
			// All-or-nothing: returning the error aborts the transaction, so
			// no batch, ledger, or product mutation survives.
			return &InsufficientStockError{
				ProductID: req.ProductID,
				Requested: req.Quantity,
				Available: available,
			}
		}

		remaining := req.Quantity
		runningStock := product.CurrentStock
		totalCost := decimal.Zero
		totalRevenue := decimal.Zero

		for i := range candidates {
			if remaining == 0 {
				break
			}
			batch := &candidates[i]

			take := batch.AvailableQuantity()
			if take > remaining {
				take = remaining
			}

			batch.CurrentQuantity -= take
			if batch.CurrentQuantity == 0 {
				batch.Status = model.BatchDepleted
			}
			if err := s.batches.UpdateTx(tx, batch); err != nil {
				return err
			}

			qty := decimal.NewFromInt(int64(take))
			totalCost = totalCost.Add(batch.CostPrice.Mul(qty))
			totalRevenue = totalRevenue.Add(batch.SellingPrice.Mul(qty))

			result.BatchesUsed = append(result.BatchesUsed, dto.BatchUsage{
				BatchID:      batch.ID.String(),
				BatchNumber:  batch.BatchNumber,
				Quantity:     take,
				CostPrice:    batch.CostPrice,
				SellingPrice: batch.SellingPrice,
			})

			entry := &model.StockLedgerEntry{
				ProductID:     productID,
				MovementType:  model.MovementSale,
				Quantity:      -take,
				PreviousStock: runningStock,
				NewStock:      runningStock - take,
				BatchNumber:   &batch.BatchNumber,
				UnitCost:      batch.CostPrice,
				Reference:     req.Reference,
				PerformedBy:   req.PerformedBy,
				CreatedAt:     now,
			}
			if err := s.ledger.CreateTx(tx, entry); err != nil {
				return err
			}

			runningStock -= take
			remaining -= take
		}

		if err := s.products.IncrementStockTx(tx, productID, -req.Quantity); err != nil {
			return err
		}

		qty := decimal.NewFromInt(int64(req.Quantity))
		result.TotalCost = totalCost
		result.TotalRevenue = totalRevenue
		result.Profit = totalRevenue.Sub(totalCost)
		if !totalRevenue.IsZero() {
			result.ProfitMargin = result.Profit.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
		}
		result.AverageCostPrice = totalCost.DivRound(qty, 4)
		result.AverageSellingPrice = totalRevenue.DivRound(qty, 4)
		result.NewStock = product.CurrentStock - req.Quantity
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Int("batches_used", len(result.BatchesUsed)).
		Str("total_cost", result.TotalCost.String()).
		Msg("stock consumed")

	s.alertIfLow(ctx, productID)
	return result, nil
}

func (s *consumptionService) alertIfLow(ctx context.Context, productID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil || product.CurrentStock > product.MinStock {
		return
	}
	payload := map[string]interface{}{
		"kind":          "low_stock",
		"product_id":    product.ID.String(),
		"name":          product.Name,
		"current_stock": product.CurrentStock,
		"min_stock":     product.MinStock,
	}
	if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
		log.Warn().Err(err).Str("product_id", productID.String()).Msg("failed to enqueue low-stock alert")
	}
}
