package dto

import "github.com/shopspring/decimal"

// ProductFilter narrows product listings.
type ProductFilter struct {
	Barcode    string
	Name       string
	Category   string
	SupplierID string
	Active     string // "" | "false" | "all"
	Page       int
	Limit      int
}

// CreateProductRequest registers a catalog entry. Barcode is optional: when
// absent one is requested from the external allocation service.
type CreateProductRequest struct {
	Barcode      string          `json:"barcode,omitempty"`
	Name         string          `json:"name" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Category     string          `json:"category" validate:"required"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"min=0"`
	MinStock     int             `json:"min_stock" validate:"min=0"`
	Unit         string          `json:"unit,omitempty"`
	SupplierID   *string         `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateProductRequest patches mutable catalog fields. Stock is absent on
// purpose: the cached total only moves through batch operations.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	MinStock     *int             `json:"min_stock,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	SupplierID   *string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
}

// ProductResponse is the wire shape of one catalog entry.
type ProductResponse struct {
	ID           string          `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Category     string          `json:"category"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	Unit         string          `json:"unit"`
	SupplierID   *string         `json:"supplier_id,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
}

// ProductListResponse is a paginated product listing.
type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse serves the barcode price lookup (cached in Redis).
type PriceCheckResponse struct {
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Unit         string          `json:"unit"`
	InStock      bool            `json:"in_stock"`
}
