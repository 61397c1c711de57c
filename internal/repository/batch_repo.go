package repository

import (
	"context"
	"time"

	"martpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchFilter narrows batch listings.
type BatchFilter struct {
	ProductID *uuid.UUID
	Status    model.BatchStatus
	Page      int
	Limit     int
}

// BatchRepository is the data access contract for inventory lots. All quantity
// mutations go through the *Tx variants so they stay inside the caller's
// transaction alongside the product and ledger writes.
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	FindByNumber(ctx context.Context, number string) (*model.Batch, error)
	List(ctx context.Context, filter BatchFilter) ([]model.Batch, int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Batch, error)

	CreateTx(tx *gorm.DB, b *model.Batch) error
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Batch, error)
	UpdateTx(tx *gorm.DB, b *model.Batch) error

	// FindConsumableTx returns batches eligible for FIFO consumption: active,
	// available quantity > 0, not expired as of now. Ordered oldest purchase
	// first with creation order as tiebreak, rows locked FOR UPDATE.
	FindConsumableTx(tx *gorm.DB, productID uuid.UUID, now time.Time) ([]model.Batch, error)

	// ListExpiredCandidates returns ids of active batches with stock whose
	// expiry date lies before cutoff. Runs outside any transaction: the sweep
	// opens one per batch.
	ListExpiredCandidates(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)

	// SumCurrentQuantity recomputes the batch-sum side of the product stock
	// invariant over non-terminal batches.
	SumCurrentQuantity(ctx context.Context, productID uuid.UUID) (int, error)

	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *batchRepo) FindByNumber(ctx context.Context, number string) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).Where("batch_number = ?", number).First(&b).Error
	return &b, err
}

func (r *batchRepo) List(ctx context.Context, filter BatchFilter) ([]model.Batch, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Batch{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	var batches []model.Batch
	err := q.Order("purchase_date ASC, created_at ASC").Offset(offset).Limit(limit).Find(&batches).Error
	return batches, total, err
}

func (r *batchRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("purchase_date ASC, created_at ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) CreateTx(tx *gorm.DB, b *model.Batch) error {
	return tx.Create(b).Error
}

func (r *batchRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error
	return &b, err
}

func (r *batchRepo) UpdateTx(tx *gorm.DB, b *model.Batch) error {
	return tx.Save(b).Error
}

func (r *batchRepo) FindConsumableTx(tx *gorm.DB, productID uuid.UUID, now time.Time) ([]model.Batch, error) {
	var batches []model.Batch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND status = ?", productID, model.BatchActive).
		Where("current_quantity - reserved_quantity > 0").
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Order("purchase_date ASC, created_at ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListExpiredCandidates(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("status = ? AND current_quantity > 0 AND expiry_date < ?", model.BatchActive, cutoff).
		Order("expiry_date ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *batchRepo) SumCurrentQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("product_id = ? AND status NOT IN ?", productID,
			[]model.BatchStatus{model.BatchExpired, model.BatchDamaged}).
		Select("COALESCE(SUM(current_quantity), 0)").
		Scan(&sum).Error
	return int(sum), err
}

func (r *batchRepo) DB() *gorm.DB { return r.db }
