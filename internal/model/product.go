package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the sellable unit of the catalog. CurrentStock is a denormalized
// cache: at any point where no transaction is in flight it equals the sum of
// CurrentQuantity over this product's non-terminal batches. Only the batch and
// consumption services are allowed to touch it, always inside the same
// transaction as the corresponding batch and ledger writes.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode     string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentStock int            `gorm:"not null;default:0"`
	MinStock     int            `gorm:"not null;default:5"`
	Unit         string         `gorm:"not null;default:'unit'"`
	SupplierID   *uuid.UUID     `gorm:"type:uuid;index"`
	Active       bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
