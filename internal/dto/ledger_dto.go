package dto

import "github.com/shopspring/decimal"

// LedgerQuery carries the query-string filters of a ledger read. Dates are
// YYYY-MM-DD; the "to" bound is inclusive of the whole day.
type LedgerQuery struct {
	ProductID    string `form:"product_id"`
	BatchNumber  string `form:"batch_number"`
	MovementType string `form:"movement_type"`
	From         string `form:"from"`
	To           string `form:"to"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// LedgerEntryResponse is the wire shape of one immutable stock movement.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	MovementType  string          `json:"movement_type"`
	Quantity      int             `json:"quantity"`
	PreviousStock int             `json:"previous_stock"`
	NewStock      int             `json:"new_stock"`
	BatchNumber   *string         `json:"batch_number,omitempty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reference     *string         `json:"reference,omitempty"`
	PerformedBy   string          `json:"performed_by"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// LedgerListResponse is a paginated ledger read.
type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
