package infra

import (
	"fmt"

	"martpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the idempotent SQL patches GORM cannot express (partial
// indexes for the hot expiry-sweep and ledger queries).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.PurchaseOrder{},
		&model.Batch{},
		&model.BatchSequence{},
		&model.StockLedgerEntry{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// The expiry sweep only ever scans active batches with stock and an
		// expiry date; a partial index keeps that scan cheap as history grows.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_batches_expiry_candidates') THEN
		    CREATE INDEX idx_batches_expiry_candidates
		        ON batches (expiry_date)
		        WHERE status = 'active' AND current_quantity > 0 AND expiry_date IS NOT NULL;
		  END IF;
		END $$`,
		// Ledger history reads are always product + time ordered.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_ledger_product_time') THEN
		    CREATE INDEX idx_stock_ledger_product_time
		        ON stock_ledger (product_id, created_at DESC);
		  END IF;
		END $$`,
		// Batches never go negative even if a bug slips past the services.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_batches_nonnegative') THEN
		    ALTER TABLE batches ADD CONSTRAINT chk_batches_nonnegative
		        CHECK (current_quantity >= 0 AND reserved_quantity >= 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
