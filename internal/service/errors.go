package service

import (
	"errors"
	"fmt"

	"martpos/internal/model"
)

// Error taxonomy for the inventory core. Handlers translate these into HTTP
// statuses; nothing below this layer leaks raw driver errors to callers.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrBatchNotFound   = errors.New("batch not found")

	// ErrConflict signals the transaction could not commit because of a
	// concurrent mutation. Retryable by the caller — the core never retries.
	ErrConflict = errors.New("concurrent mutation, retry the operation")

	// ErrStoreUnavailable signals transaction/session infrastructure failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidArgumentError rejects structurally bad input: non-positive quantity,
// negative price, malformed status value.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func invalidArgumentf(format string, args ...interface{}) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidOperationError rejects an operation that is well-formed but not
// permitted in the current state, e.g. an adjustment that would drive a batch
// negative or a status transition outside the table.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}

func invalidOperationf(format string, args ...interface{}) error {
	return &InvalidOperationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is the expected, user-actionable outcome when FIFO
// consumption cannot satisfy the requested quantity from eligible batches.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// InvalidTransitionError reports a status change outside the transition table.
type InvalidTransitionError struct {
	From, To model.BatchStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("status transition %s → %s is not permitted", e.From, e.To)
}
