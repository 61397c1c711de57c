package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest receives one inbound lot.
type CreateBatchRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	CostPrice       decimal.Decimal  `json:"cost_price" validate:"min=0"`
	SellingPrice    decimal.Decimal  `json:"selling_price" validate:"min=0"`
	MRP             *decimal.Decimal `json:"mrp,omitempty"`
	PurchaseDate    *time.Time       `json:"purchase_date,omitempty"` // defaults to now
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time       `json:"manufacture_date,omitempty"`
	PurchaseOrderID *string          `json:"purchase_order_id,omitempty" validate:"omitempty,uuid"`
	SupplierID      *string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	Notes           *string          `json:"notes,omitempty"`
	PerformedBy     string           `json:"performed_by" validate:"required"`
}

// AdjustBatchRequest moves a batch quantity by a signed delta.
type AdjustBatchRequest struct {
	Delta       int    `json:"delta" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	PerformedBy string `json:"performed_by" validate:"required"`
}

// SetBatchStatusRequest transitions a batch between lifecycle states.
type SetBatchStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=active expired damaged returned"`
	Reason      string `json:"reason" validate:"required"`
	PerformedBy string `json:"performed_by" validate:"required"`
}

// BatchResponse is the wire shape of one lot.
type BatchResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name,omitempty"`
	BatchNumber      string           `json:"batch_number"`
	InitialQuantity  int              `json:"initial_quantity"`
	CurrentQuantity  int              `json:"current_quantity"`
	ReservedQuantity int              `json:"reserved_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	MRP              *decimal.Decimal `json:"mrp,omitempty"`
	PurchaseDate     string           `json:"purchase_date"`
	ExpiryDate       *string          `json:"expiry_date,omitempty"`
	ManufactureDate  *string          `json:"manufacture_date,omitempty"`
	Status           string           `json:"status"`
	PurchaseOrderID  *string          `json:"purchase_order_id,omitempty"`
	SupplierID       *string          `json:"supplier_id,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

// BatchListResponse is a paginated batch listing.
type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
