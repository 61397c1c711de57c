package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
	MovementExpired    MovementType = "expired"
	MovementDamage     MovementType = "damage"
)

func (m MovementType) Valid() bool {
	switch m {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementExpired, MovementDamage:
		return true
	}
	return false
}

// StockLedgerEntry records one stock mutation on a product. Entries are
// immutable — never updated or deleted — and are only ever written inside the
// same transaction as the batch and product changes they document.
// PreviousStock/NewStock snapshot the product's cached total at that instant,
// so NewStock-PreviousStock always equals Quantity.
type StockLedgerEntry struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	MovementType  MovementType `gorm:"type:varchar(16);not null;index"`
	Quantity      int          `gorm:"not null"` // signed: positive = inbound, negative = outbound
	PreviousStock int          `gorm:"not null"`
	NewStock      int          `gorm:"not null"`
	BatchNumber   *string      `gorm:"index"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Reference     *string
	PerformedBy   string `gorm:"not null"`
	Notes         *string
	CreatedAt     time.Time `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's default pluralization (stock_ledger_entries → stock_ledger).
func (StockLedgerEntry) TableName() string { return "stock_ledger" }
