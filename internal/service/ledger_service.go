package service

import (
	"context"
	"time"

	"martpos/internal/dto"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/google/uuid"
)

// LedgerService is the read side of the stock ledger. Writes never go through
// here: every entry is appended inside the transaction that caused it.
type LedgerService interface {
	List(ctx context.Context, q dto.LedgerQuery) (*dto.LedgerListResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*dto.LedgerListResponse, error)
}

type ledgerService struct {
	ledger   repository.StockLedgerRepository
	products repository.ProductRepository
}

func NewLedgerService(ledger repository.StockLedgerRepository, products repository.ProductRepository) LedgerService {
	return &ledgerService{ledger: ledger, products: products}
}

func (s *ledgerService) List(ctx context.Context, q dto.LedgerQuery) (*dto.LedgerListResponse, error) {
	filter := repository.StockLedgerFilter{
		BatchNumber: q.BatchNumber,
		Page:        q.Page,
		Limit:       q.Limit,
	}
	if q.ProductID != "" {
		id, err := uuid.Parse(q.ProductID)
		if err != nil {
			return nil, invalidArgumentf("product_id is not a valid uuid")
		}
		filter.ProductID = &id
	}
	if q.MovementType != "" {
		mt := model.MovementType(q.MovementType)
		if !mt.Valid() {
			return nil, invalidArgumentf("unknown movement type %q", q.MovementType)
		}
		filter.MovementType = mt
	}
	if q.From != "" {
		t, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return nil, invalidArgumentf("from must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if q.To != "" {
		t, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return nil, invalidArgumentf("to must be YYYY-MM-DD")
		}
		// inclusive day bound
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}

	entries, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ledgerListResponse(entries, total, filter.Page, filter.Limit), nil
}

func (s *ledgerService) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) (*dto.LedgerListResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	entries, total, err := s.ledger.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, err
	}
	return ledgerListResponse(entries, total, page, limit), nil
}

func ledgerListResponse(entries []model.StockLedgerEntry, total int64, page, limit int) *dto.LedgerListResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ledgerEntryToResponse(&entries[i]))
	}
	return &dto.LedgerListResponse{Data: out, Total: total, Page: page, Limit: limit}
}

func ledgerEntryToResponse(e *model.StockLedgerEntry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:            e.ID.String(),
		ProductID:     e.ProductID.String(),
		MovementType:  string(e.MovementType),
		Quantity:      e.Quantity,
		PreviousStock: e.PreviousStock,
		NewStock:      e.NewStock,
		BatchNumber:   e.BatchNumber,
		UnitCost:      e.UnitCost,
		Reference:     e.Reference,
		PerformedBy:   e.PerformedBy,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.Product != nil {
		resp.ProductName = e.Product.Name
	}
	return resp
}
