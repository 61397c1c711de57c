package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder links inbound batches back to the order that brought them in.
// Provenance only: creating a batch may reference one, but no inventory
// invariant depends on it.
type PurchaseOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string          `gorm:"uniqueIndex;not null"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      string          `gorm:"not null;default:'open'"` // open | received | cancelled
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OrderedAt   time.Time       `gorm:"not null"`
	ReceivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
