package repository

import (
	"context"
	"time"

	"martpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLedgerFilter narrows ledger reads. All read-side responsibility is a
// plain indexed query — no logic lives here.
type StockLedgerFilter struct {
	ProductID    *uuid.UUID
	BatchNumber  string
	MovementType model.MovementType
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

// StockLedgerRepository appends and reads the audit trail. CreateTx is never
// called outside another component's transaction: an entry's correctness is
// entirely derived from being written alongside the aggregate change it
// documents.
type StockLedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.StockLedgerEntry) error
	List(ctx context.Context, filter StockLedgerFilter) ([]model.StockLedgerEntry, int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockLedgerEntry, int64, error)
}

type stockLedgerRepo struct{ db *gorm.DB }

func NewStockLedgerRepository(db *gorm.DB) StockLedgerRepository {
	return &stockLedgerRepo{db: db}
}

func (r *stockLedgerRepo) CreateTx(tx *gorm.DB, e *model.StockLedgerEntry) error {
	return tx.Create(e).Error
}

func (r *stockLedgerRepo) List(ctx context.Context, filter StockLedgerFilter) ([]model.StockLedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockLedgerEntry{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.BatchNumber != "" {
		q = q.Where("batch_number = ?", filter.BatchNumber)
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var entries []model.StockLedgerEntry
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *stockLedgerRepo) ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.StockLedgerEntry, int64, error) {
	return r.List(ctx, StockLedgerFilter{ProductID: &productID, Page: page, Limit: limit})
}
