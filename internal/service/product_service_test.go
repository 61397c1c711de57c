package service

import (
	"context"
	"errors"
	"testing"

	"martpos/internal/dto"
	"martpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAllocator struct {
	barcode string
	err     error
	calls   int
}

func (a *stubAllocator) NextBarcode(context.Context) (string, error) {
	a.calls++
	return a.barcode, a.err
}

func TestProductService(t *testing.T) {
	ctx := context.Background()

	t.Run("create with explicit barcode skips allocation", func(t *testing.T) {
		repo := newStubProductRepo()
		alloc := &stubAllocator{barcode: "9990001"}
		svc := NewProductService(repo, alloc, nil)

		resp, err := svc.Create(ctx, dto.CreateProductRequest{
			Barcode: "7791111222333", Name: "Rice", Category: "grocery",
			CostPrice: dec("2.40"), SellingPrice: dec("3.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, "7791111222333", resp.Barcode)
		assert.Equal(t, 0, alloc.calls)
		assert.Equal(t, "unit", resp.Unit)
		assert.True(t, resp.Active)
	})

	t.Run("create without barcode allocates one", func(t *testing.T) {
		repo := newStubProductRepo()
		alloc := &stubAllocator{barcode: "2000000000001"}
		svc := NewProductService(repo, alloc, nil)

		resp, err := svc.Create(ctx, dto.CreateProductRequest{
			Name: "Bulk Rice", Category: "grocery",
			CostPrice: dec("2.40"), SellingPrice: dec("3.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2000000000001", resp.Barcode)
		assert.Equal(t, 1, alloc.calls)
	})

	t.Run("allocator failure fails creation", func(t *testing.T) {
		repo := newStubProductRepo()
		alloc := &stubAllocator{err: errors.New("allocator down")}
		svc := NewProductService(repo, alloc, nil)

		_, err := svc.Create(ctx, dto.CreateProductRequest{
			Name: "Bulk Rice", Category: "grocery",
			CostPrice: dec("2.40"), SellingPrice: dec("3.50"),
		})
		assert.Error(t, err)
	})

	t.Run("barcode required when no allocator wired", func(t *testing.T) {
		repo := newStubProductRepo()
		svc := NewProductService(repo, nil, nil)

		_, err := svc.Create(ctx, dto.CreateProductRequest{
			Name: "Bulk Rice", Category: "grocery",
			CostPrice: dec("2.40"), SellingPrice: dec("3.50"),
		})
		var invalid *InvalidArgumentError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("deactivate hides the product from barcode lookup", func(t *testing.T) {
		repo := newStubProductRepo()
		svc := NewProductService(repo, nil, nil)
		p := repo.add(&model.Product{
			ID: uuid.New(), Barcode: "7791111000001", Name: "Old SKU",
			Category: "grocery", Active: true,
		})

		require.NoError(t, svc.Deactivate(ctx, p.ID))
		_, err := svc.GetByBarcode(ctx, "7791111000001")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("update rejects negative prices", func(t *testing.T) {
		repo := newStubProductRepo()
		svc := NewProductService(repo, nil, nil)
		p := repo.add(&model.Product{
			ID: uuid.New(), Barcode: "7791111000002", Name: "SKU",
			Category: "grocery", Active: true,
		})

		bad := dec("-1")
		_, err := svc.Update(ctx, p.ID, dto.UpdateProductRequest{CostPrice: &bad})
		var invalid *InvalidArgumentError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("alerts list products at or below minimum", func(t *testing.T) {
		repo := newStubProductRepo()
		svc := NewProductService(repo, nil, nil)
		repo.add(&model.Product{ID: uuid.New(), Barcode: "1", Name: "Low", Category: "g", CurrentStock: 2, MinStock: 5, Active: true})
		repo.add(&model.Product{ID: uuid.New(), Barcode: "2", Name: "OK", Category: "g", CurrentStock: 50, MinStock: 5, Active: true})
		repo.add(&model.Product{ID: uuid.New(), Barcode: "3", Name: "Inactive", Category: "g", CurrentStock: 0, MinStock: 5, Active: false})

		alerts, err := svc.GetAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Low", alerts[0].Name)
	})
}
