package service

import (
	"context"
	"testing"
	"time"

	"martpos/internal/dto"
	"martpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*stubLedgerRepo, *stubProductRepo, uuid.UUID) {
		t.Helper()
		ledger := newStubLedgerRepo()
		products := newStubProductRepo()
		p := products.add(&model.Product{
			ID: uuid.New(), Barcode: "7791110000001", Name: "Ledgered",
			Category: "grocery", Active: true,
		})
		bn := "BATCH-TEST-0001"
		for i, mt := range []model.MovementType{model.MovementPurchase, model.MovementSale} {
			require.NoError(t, ledger.CreateTx(nil, &model.StockLedgerEntry{
				ProductID:    p.ID,
				MovementType: mt,
				Quantity:     10 - 14*i, // +10 then -4
				PreviousStock: 10 * i,
				NewStock:      10 - 4*i,
				BatchNumber:   &bn,
				UnitCost:      dec("8"),
				PerformedBy:   "tester",
				CreatedAt:     time.Now(),
			}))
		}
		return ledger, products, p.ID
	}

	t.Run("filters by movement type", func(t *testing.T) {
		ledger, products, productID := seed(t)
		svc := NewLedgerService(ledger, products)

		resp, err := svc.List(ctx, dto.LedgerQuery{
			ProductID:    productID.String(),
			MovementType: "sale",
		})
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "sale", resp.Data[0].MovementType)
	})

	t.Run("rejects unknown movement type", func(t *testing.T) {
		ledger, products, _ := seed(t)
		svc := NewLedgerService(ledger, products)

		_, err := svc.List(ctx, dto.LedgerQuery{MovementType: "teleport"})
		var invalid *InvalidArgumentError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects malformed dates and ids", func(t *testing.T) {
		ledger, products, _ := seed(t)
		svc := NewLedgerService(ledger, products)

		var invalid *InvalidArgumentError
		_, err := svc.List(ctx, dto.LedgerQuery{From: "30-01-2025"})
		assert.ErrorAs(t, err, &invalid)
		_, err = svc.List(ctx, dto.LedgerQuery{ProductID: "not-a-uuid"})
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("per-product read checks the product exists", func(t *testing.T) {
		ledger, products, productID := seed(t)
		svc := NewLedgerService(ledger, products)

		resp, err := svc.ListByProduct(ctx, productID, 1, 50)
		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)

		_, err = svc.ListByProduct(ctx, uuid.New(), 1, 50)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}
