package service

import (
	"context"
	"time"

	"martpos/internal/dto"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BatchService is the batch store: it exclusively owns batch quantity
// mutations. Every operation that touches a batch also touches the product's
// cached stock and appends a ledger entry, all inside one transaction.
type BatchService interface {
	CreateBatch(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	AdjustQuantity(ctx context.Context, batchID uuid.UUID, req dto.AdjustBatchRequest) (*dto.BatchResponse, error)
	SetStatus(ctx context.Context, batchID uuid.UUID, req dto.SetBatchStatusRequest) (*dto.BatchResponse, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) (*dto.BatchResponse, error)
	ListBatches(ctx context.Context, filter repository.BatchFilter) (*dto.BatchListResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.BatchResponse, error)
}

// AlertDispatcher enqueues stock alerts after a committed mutation.
// Best-effort: a queue failure never fails the inventory operation.
type AlertDispatcher interface {
	EnqueueStockAlert(ctx context.Context, payload interface{}) error
}

type batchService struct {
	batches    repository.BatchRepository
	products   repository.ProductRepository
	ledger     repository.StockLedgerRepository
	sequences  repository.BatchSequenceRepository
	clock      Clock
	dispatcher AlertDispatcher
}

func NewBatchService(
	batches repository.BatchRepository,
	products repository.ProductRepository,
	ledger repository.StockLedgerRepository,
	sequences repository.BatchSequenceRepository,
	clock Clock,
	dispatcher AlertDispatcher,
) BatchService {
	if clock == nil {
		clock = SystemClock()
	}
	return &batchService{
		batches:    batches,
		products:   products,
		ledger:     ledger,
		sequences:  sequences,
		clock:      clock,
		dispatcher: dispatcher,
	}
}

// ── CreateBatch ───────────────────────────────────────────────────────────────
// One atomic unit: allocate the batch number, insert the batch, bump the
// product's cached stock, overwrite its default prices with this batch's
// (latest-batch-wins), and append a `purchase` ledger entry. Any failure
// after allocation aborts the whole thing.

func (s *batchService) CreateBatch(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalidArgumentf("product_id is not a valid uuid")
	}
	if req.Quantity <= 0 {
		return nil, invalidArgumentf("quantity must be positive, got %d", req.Quantity)
	}
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, invalidArgumentf("prices must not be negative")
	}
	if req.MRP != nil && req.SellingPrice.GreaterThan(*req.MRP) {
		return nil, invalidArgumentf("selling price %s exceeds mrp %s", req.SellingPrice, req.MRP)
	}

	var purchaseOrderID, supplierID *uuid.UUID
	if req.PurchaseOrderID != nil {
		id, err := uuid.Parse(*req.PurchaseOrderID)
		if err != nil {
			return nil, invalidArgumentf("purchase_order_id is not a valid uuid")
		}
		purchaseOrderID = &id
	}
	if req.SupplierID != nil {
		id, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, invalidArgumentf("supplier_id is not a valid uuid")
		}
		supplierID = &id
	}

	now := s.clock.Now()
	purchaseDate := now
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	var batch model.Batch
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		product, err := s.products.FindByIDForUpdateTx(tx, productID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}

		number, err := s.sequences.NextBatchNumberTx(tx, productID, now)
		if err != nil {
			return err
		}

		batch = model.Batch{
			ProductID:       productID,
			BatchNumber:     number,
			InitialQuantity: req.Quantity,
			CurrentQuantity: req.Quantity,
			CostPrice:       req.CostPrice,
			SellingPrice:    req.SellingPrice,
			MRP:             req.MRP,
			PurchaseDate:    purchaseDate,
			ExpiryDate:      req.ExpiryDate,
			ManufactureDate: req.ManufactureDate,
			Status:          model.BatchActive,
			PurchaseOrderID: purchaseOrderID,
			SupplierID:      supplierID,
			Notes:           req.Notes,
		}
		if err := s.batches.CreateTx(tx, &batch); err != nil {
			return err
		}

		if err := s.products.IncrementStockTx(tx, productID, req.Quantity); err != nil {
			return err
		}
		// Latest-batch-wins: the product's default prices always mirror the
		// most recently received batch, even when older active batches carry
		// different per-batch prices.
		if err := s.products.UpdatePricesTx(tx, productID, req.CostPrice, req.SellingPrice); err != nil {
			return err
		}

		entry := &model.StockLedgerEntry{
			ProductID:     productID,
			MovementType:  model.MovementPurchase,
			Quantity:      req.Quantity,
			PreviousStock: product.CurrentStock,
			NewStock:      product.CurrentStock + req.Quantity,
			BatchNumber:   &batch.BatchNumber,
			UnitCost:      req.CostPrice,
			PerformedBy:   req.PerformedBy,
			Notes:         req.Notes,
			CreatedAt:     now,
		}
		return s.ledger.CreateTx(tx, entry)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("batch_number", batch.BatchNumber).
		Str("product_id", productID.String()).
		Int("quantity", req.Quantity).
		Msg("batch created")

	return batchToResponse(&batch), nil
}

// ── AdjustQuantity ────────────────────────────────────────────────────────────

func (s *batchService) AdjustQuantity(ctx context.Context, batchID uuid.UUID, req dto.AdjustBatchRequest) (*dto.BatchResponse, error) {
	if req.Delta == 0 {
		return nil, invalidArgumentf("delta must not be zero")
	}

	var batch *model.Batch
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		var err error
		batch, err = s.batches.FindByIDForUpdateTx(tx, batchID)
		if err != nil {
			return notFound(err, ErrBatchNotFound)
		}
		if batch.Status != model.BatchActive && batch.Status != model.BatchDepleted {
			return invalidOperationf("cannot adjust a %s batch", batch.Status)
		}

		newQty := batch.CurrentQuantity + req.Delta
		if newQty < 0 {
			return invalidOperationf("adjustment of %d would go negative (current %d)",
				req.Delta, batch.CurrentQuantity)
		}
		if newQty < batch.ReservedQuantity {
			return invalidOperationf("adjustment of %d would drop below reserved quantity %d",
				req.Delta, batch.ReservedQuantity)
		}

		batch.CurrentQuantity = newQty
		// Flip depleted ↔ active at the zero boundary.
		if newQty == 0 && batch.Status == model.BatchActive {
			batch.Status = model.BatchDepleted
		} else if newQty > 0 && batch.Status == model.BatchDepleted {
			batch.Status = model.BatchActive
		}
		if err := s.batches.UpdateTx(tx, batch); err != nil {
			return err
		}

		product, err := s.products.FindByIDForUpdateTx(tx, batch.ProductID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if err := s.products.IncrementStockTx(tx, batch.ProductID, req.Delta); err != nil {
			return err
		}

		reason := req.Reason
		entry := &model.StockLedgerEntry{
			ProductID:     batch.ProductID,
			MovementType:  model.MovementAdjustment,
			Quantity:      req.Delta,
			PreviousStock: product.CurrentStock,
			NewStock:      product.CurrentStock + req.Delta,
			BatchNumber:   &batch.BatchNumber,
			UnitCost:      batch.CostPrice,
			PerformedBy:   req.PerformedBy,
			Notes:         &reason,
			CreatedAt:     s.clock.Now(),
		}
		return s.ledger.CreateTx(tx, entry)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertIfLow(ctx, batch.ProductID)
	return batchToResponse(batch), nil
}

// ── SetStatus ─────────────────────────────────────────────────────────────────
// Entering a terminal status (expired/damaged) from quantity > 0 zeroes the
// batch, reverses that amount from the product total, and appends a ledger
// entry of matching movement type. Moves among non-terminal states only touch
// metadata.

func (s *batchService) SetStatus(ctx context.Context, batchID uuid.UUID, req dto.SetBatchStatusRequest) (*dto.BatchResponse, error) {
	newStatus := model.BatchStatus(req.Status)
	if !newStatus.Valid() || newStatus == model.BatchDepleted {
		return nil, invalidArgumentf("malformed status %q", req.Status)
	}

	var batch *model.Batch
	txErr := runTx(ctx, s.batches.DB(), func(tx *gorm.DB) error {
		var err error
		batch, err = s.batches.FindByIDForUpdateTx(tx, batchID)
		if err != nil {
			return notFound(err, ErrBatchNotFound)
		}
		return s.transitionTx(tx, batch, newStatus, req.Reason, req.PerformedBy)
	})
	if txErr != nil {
		return nil, txErr
	}
	return batchToResponse(batch), nil
}

// transitionTx applies a status change to an already-locked batch. Shared
// with the expiry sweep, which runs the same single-batch semantics per
// candidate in its own transaction.
func (s *batchService) transitionTx(tx *gorm.DB, batch *model.Batch, newStatus model.BatchStatus, reason, performedBy string) error {
	if !model.CanTransition(batch.Status, newStatus) {
		return &InvalidTransitionError{From: batch.Status, To: newStatus}
	}

	removed := 0
	if newStatus.Terminal() && batch.CurrentQuantity > 0 {
		removed = batch.CurrentQuantity
		batch.CurrentQuantity = 0
	}
	batch.Status = newStatus
	if reason != "" {
		batch.Notes = &reason
	}
	if err := s.batches.UpdateTx(tx, batch); err != nil {
		return err
	}

	if removed == 0 {
		return nil
	}

	product, err := s.products.FindByIDForUpdateTx(tx, batch.ProductID)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}
	if err := s.products.IncrementStockTx(tx, batch.ProductID, -removed); err != nil {
		return err
	}

	movement := model.MovementExpired
	if newStatus == model.BatchDamaged {
		movement = model.MovementDamage
	}
	entry := &model.StockLedgerEntry{
		ProductID:     batch.ProductID,
		MovementType:  movement,
		Quantity:      -removed,
		PreviousStock: product.CurrentStock,
		NewStock:      product.CurrentStock - removed,
		BatchNumber:   &batch.BatchNumber,
		UnitCost:      batch.CostPrice,
		PerformedBy:   performedBy,
		Notes:         &reason,
		CreatedAt:     s.clock.Now(),
	}
	return s.ledger.CreateTx(tx, entry)
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *batchService) GetBatch(ctx context.Context, batchID uuid.UUID) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, notFound(err, ErrBatchNotFound)
	}
	return batchToResponse(batch), nil
}

func (s *batchService) ListBatches(ctx context.Context, filter repository.BatchFilter) (*dto.BatchListResponse, error) {
	batches, total, err := s.batches.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		data = append(data, *batchToResponse(&batches[i]))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.BatchListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *batchService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.BatchResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	batches, err := s.batches.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		data = append(data, *batchToResponse(&batches[i]))
	}
	return data, nil
}

// alertIfLow enqueues a low-stock alert when the product dropped to or under
// its minimum. Fire and forget.
func (s *batchService) alertIfLow(ctx context.Context, productID uuid.UUID) {
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

func batchToResponse(b *model.Batch) *dto.BatchResponse {
	resp := &dto.BatchResponse{
		ID:                b.ID.String(),
		ProductID:         b.ProductID.String(),
		BatchNumber:       b.BatchNumber,
		InitialQuantity:   b.InitialQuantity,
		CurrentQuantity:   b.CurrentQuantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity(),
		CostPrice:         b.CostPrice,
		SellingPrice:      b.SellingPrice,
		MRP:               b.MRP,
		PurchaseDate:      b.PurchaseDate.Format(time.RFC3339),
		Status:            string(b.Status),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
	if b.Product != nil {
		resp.ProductName = b.Product.Name
	}
	if b.ExpiryDate != nil {
		s := b.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &s
	}
	if b.ManufactureDate != nil {
		s := b.ManufactureDate.Format("2006-01-02")
		resp.ManufactureDate = &s
	}
	if b.PurchaseOrderID != nil {
		s := b.PurchaseOrderID.String()
		resp.PurchaseOrderID = &s
	}
	if b.SupplierID != nil {
		s := b.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}
