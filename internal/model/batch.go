package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle state of an inventory lot.
type BatchStatus string

const (
	BatchActive   BatchStatus = "active"
	BatchDepleted BatchStatus = "depleted"
	BatchExpired  BatchStatus = "expired"
	BatchDamaged  BatchStatus = "damaged"
	BatchReturned BatchStatus = "returned"
)

// Valid reports whether s is a known status value.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchActive, BatchDepleted, BatchExpired, BatchDamaged, BatchReturned:
		return true
	}
	return false
}

// Terminal statuses hold no sellable quantity: entering one zeroes the batch
// and reverses the remainder from the product total.
func (s BatchStatus) Terminal() bool {
	return s == BatchExpired || s == BatchDamaged
}

// statusTransitions is the closed transition table. Depleted is only entered
// implicitly when consumption or an adjustment drives quantity to zero, never
// via SetStatus.
var statusTransitions = map[BatchStatus][]BatchStatus{
	BatchActive:   {BatchExpired, BatchDamaged, BatchReturned},
	BatchDepleted: {BatchExpired, BatchDamaged},
	BatchReturned: {BatchActive, BatchDamaged},
	BatchDamaged:  {BatchActive},
}

// CanTransition reports whether from → to is an allowed explicit status change.
func CanTransition(from, to BatchStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Batch is one inbound inventory lot. InitialQuantity never changes after
// creation; CurrentQuantity only moves through the batch and consumption
// services. PurchaseDate (with CreatedAt as tiebreak) defines FIFO order.
type Batch struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_batches_product_fifo,priority:1"`
	BatchNumber      string     `gorm:"uniqueIndex;not null"`
	InitialQuantity  int        `gorm:"not null"`
	CurrentQuantity  int        `gorm:"not null"`
	ReservedQuantity int        `gorm:"not null;default:0"`
	CostPrice        decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	SellingPrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	MRP              *decimal.Decimal `gorm:"type:decimal(10,2)"`
	PurchaseDate     time.Time        `gorm:"not null;index:idx_batches_product_fifo,priority:2"`
	ExpiryDate       *time.Time       `gorm:"index"`
	ManufactureDate  *time.Time
	Status           BatchStatus `gorm:"type:varchar(16);not null;default:'active';index"`
	PurchaseOrderID  *uuid.UUID  `gorm:"type:uuid"`
	SupplierID       *uuid.UUID  `gorm:"type:uuid"`
	Notes            *string
	CreatedAt        time.Time `gorm:"index:idx_batches_product_fifo,priority:3"`
	UpdatedAt        time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// AvailableQuantity is what consumption may still take from this batch.
func (b *Batch) AvailableQuantity() int {
	return b.CurrentQuantity - b.ReservedQuantity
}

// ExpiredAsOf reports whether the batch's expiry date lies strictly before
// the start of asOf's day. Date-only comparison: a batch expiring "today"
// is not yet expired.
func (b *Batch) ExpiredAsOf(asOf time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	dayStart := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	return b.ExpiryDate.Before(dayStart)
}
