package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is informational provenance for batches and products. Not touched
// by any inventory invariant.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	TaxID     *string   `gorm:"uniqueIndex"`
	Phone     *string
	Email     *string
	Address   *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (Supplier) TableName() string { return "suppliers" }
