package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchSequenceRepository allocates batch numbers, monotonically distinct per
// product lineage. Allocation participates in the batch-creation transaction:
// Postgres upserts make that cheap, and a rolled-back creation then rolls the
// counter back with it.
type BatchSequenceRepository interface {
	NextBatchNumberTx(tx *gorm.DB, productID uuid.UUID, at time.Time) (string, error)
}

type batchSequenceRepo struct{ db *gorm.DB }

func NewBatchSequenceRepository(db *gorm.DB) BatchSequenceRepository {
	return &batchSequenceRepo{db: db}
}

// NextBatchNumberTx bumps the per-product counter and formats the number as
// BATCH-YYMMDD-<product prefix>-<seq>, e.g. BATCH-250130-3f9a2c-0007.
func (r *batchSequenceRepo) NextBatchNumberTx(tx *gorm.DB, productID uuid.UUID, at time.Time) (string, error) {
	var next int64
	err := tx.Raw(`
		INSERT INTO batch_sequences (product_id, last_value)
		VALUES (?, 1)
		ON CONFLICT (product_id)
		DO UPDATE SET last_value = batch_sequences.last_value + 1
		RETURNING last_value
	`, productID).Scan(&next).Error
	if err != nil {
		return "", err
	}
	prefix := productID.String()[:6]
	return fmt.Sprintf("BATCH-%s-%s-%04d", at.Format("060102"), prefix, next), nil
}
