// Command seed populates a development database with a supplier, a few
// products and inbound batches. It goes through the services, not raw SQL,
// so the seeded data carries real batch numbers and ledger entries.
//
// Usage: DATABASE_URL=postgres://... go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"martpos/internal/config"
	"martpos/internal/dto"
	"martpos/internal/infra"
	"martpos/internal/model"
	"martpos/internal/repository"
	"martpos/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()

	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	ledgerRepo := repository.NewStockLedgerRepository(db)
	sequenceRepo := repository.NewBatchSequenceRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	productSvc := service.NewProductService(productRepo, nil, nil)
	batchSvc := service.NewBatchService(batchRepo, productRepo, ledgerRepo, sequenceRepo, nil, nil)

	supplier := &model.Supplier{Name: "Fresh Valley Distributors", Active: true}
	if err := supplierRepo.Create(ctx, supplier); err != nil {
		log.Fatal().Err(err).Msg("failed to create supplier")
	}
	supplierID := supplier.ID.String()

	products := []dto.CreateProductRequest{
		{Barcode: "7791234000015", Name: "Whole Milk 1L", Category: "dairy", CostPrice: dec("1.10"), SellingPrice: dec("1.60"), MinStock: 20, Unit: "unit", SupplierID: &supplierID},
		{Barcode: "7791234000022", Name: "White Bread 500g", Category: "bakery", CostPrice: dec("0.80"), SellingPrice: dec("1.20"), MinStock: 15, Unit: "unit", SupplierID: &supplierID},
		{Barcode: "7791234000039", Name: "Basmati Rice 1kg", Category: "grocery", CostPrice: dec("2.40"), SellingPrice: dec("3.50"), MinStock: 10, Unit: "kg"},
	}

	now := time.Now()
	for _, req := range products {
		p, err := productSvc.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Str("name", req.Name).Msg("failed to create product")
		}

		// Two lots per product, a week apart, so FIFO has something to blend.
		for i, days := range []int{-7, 0} {
			purchase := now.AddDate(0, 0, days)
			var expiry *time.Time
			if req.Category == "dairy" || req.Category == "bakery" {
				e := purchase.AddDate(0, 0, 14)
				expiry = &e
			}
			batchReq := dto.CreateBatchRequest{
				ProductID:    p.ID,
				Quantity:     25 + i*10,
				CostPrice:    req.CostPrice,
				SellingPrice: req.SellingPrice,
				PurchaseDate: &purchase,
				ExpiryDate:   expiry,
				SupplierID:   req.SupplierID,
				PerformedBy:  "system:seed",
			}
			b, err := batchSvc.CreateBatch(ctx, batchReq)
			if err != nil {
				log.Fatal().Err(err).Str("product", p.Name).Msg("failed to create batch")
			}
			log.Info().Str("product", p.Name).Str("batch", b.BatchNumber).Int("qty", b.CurrentQuantity).Msg("seeded batch")
		}
	}

	log.Info().Msg("seed completed")
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
