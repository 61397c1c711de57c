package model

import "github.com/google/uuid"

// BatchSequence is the per-product counter behind batch number allocation.
// Rows are upserted inside the batch-creation transaction so a rolled-back
// creation never burns a number out from under a committed one on the same
// product (gaps across products are harmless).
type BatchSequence struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName overrides GORM's default pluralization.
func (BatchSequence) TableName() string { return "batch_sequences" }
