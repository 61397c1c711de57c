package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode). Commit failures caused by
// concurrent mutation surface as ErrConflict so callers know the operation is
// retryable; the core itself never retries.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return translateStoreError(db.WithContext(ctx).Transaction(fn))
}

// translateStoreError maps low-level Postgres failures onto the core taxonomy.
// Domain errors returned by the transaction body pass through untouched.
func translateStoreError(err error) error {
	if err == nil {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		case "55P03": // lock_not_available
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		}
		// Class 08 — connection exceptions
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%w: %s", ErrStoreUnavailable, pgErr.Message)
		}
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// notFound converts gorm's record-not-found into the given domain sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
