package dto

import (
	"github.com/shopspring/decimal"
)

// ConsumeRequest asks the FIFO engine to satisfy a quantity for one product.
type ConsumeRequest struct {
	ProductID   string  `json:"product_id" validate:"required,uuid"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	PerformedBy string  `json:"performed_by" validate:"required"`
	Reference   *string `json:"reference,omitempty"`
}

// BatchUsage is one batch's contribution to a consumption, in FIFO order.
type BatchUsage struct {
	BatchID      string          `json:"batch_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// ConsumptionResult reports the blended economics of a FIFO consumption. A
// sale spanning batches at different cost prices carries a quantity-weighted
// average, never a single batch's price.
type ConsumptionResult struct {
	ProductID           string          `json:"product_id"`
	Quantity            int             `json:"quantity"`
	BatchesUsed         []BatchUsage    `json:"batches_used"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	Profit              decimal.Decimal `json:"profit"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"` // percent of revenue
	AverageCostPrice    decimal.Decimal `json:"average_cost_price"`
	AverageSellingPrice decimal.Decimal `json:"average_selling_price"`
	NewStock            int             `json:"new_stock"`
}

// SweepError records one batch the expiry sweep could not transition.
type SweepError struct {
	BatchID string `json:"batch_id"`
	Error   string `json:"error"`
}

// SweepReport summarizes one expiry sweep run. Partial success: failed
// batches land in Errors without blocking the rest.
type SweepReport struct {
	AsOf            string       `json:"as_of"`
	CandidateCount  int          `json:"candidate_count"`
	ExpiredCount    int          `json:"expired_count"`
	QuantityRemoved int          `json:"quantity_removed"`
	BatchNumbers    []string     `json:"batch_numbers"`
	Errors          []SweepError `json:"errors,omitempty"`
}

// StockAlertResponse is one low-stock product in the alert listing.
type StockAlertResponse struct {
	ProductID    string `json:"product_id"`
	Barcode      string `json:"barcode"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
}
