package service

import (
	"context"
	"time"

	"martpos/internal/dto"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PriceCacheKeyPrefix namespaces the Redis price-check cache.
const PriceCacheKeyPrefix = "price:"

// BarcodeAllocator hands out new barcodes. Check-digit generation lives in an
// external service; failure here fails product creation only when no barcode
// was supplied by the caller.
type BarcodeAllocator interface {
	NextBarcode(ctx context.Context) (string, error)
}

// ProductService manages the catalog. It never touches CurrentStock — that
// cache belongs to the batch and consumption services.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetAlerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type productService struct {
	repo     repository.ProductRepository
	barcodes BarcodeAllocator
	rdb      *redis.Client
}

func NewProductService(repo repository.ProductRepository, barcodes BarcodeAllocator, rdb *redis.Client) ProductService {
	return &productService{repo: repo, barcodes: barcodes, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, invalidArgumentf("prices must not be negative")
	}

	barcode := req.Barcode
	if barcode == "" {
		if s.barcodes == nil {
			return nil, invalidArgumentf("barcode is required")
		}
		allocated, err := s.barcodes.NextBarcode(ctx)
		if err != nil {
			return nil, err
		}
		barcode = allocated
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		id, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, invalidArgumentf("supplier_id is not a valid uuid")
		}
		supplierID = &id
	}

	p := &model.Product{
		Barcode:      barcode,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		MinStock:     req.MinStock,
		Unit:         unit,
		SupplierID:   supplierID,
		Active:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, invalidArgumentf("cost price must not be negative")
		}
		p.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, invalidArgumentf("selling price must not be negative")
		}
		p.SellingPrice = *req.SellingPrice
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, invalidArgumentf("supplier_id is not a valid uuid")
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.Barcode)
	return nil
}

func (s *productService) GetAlerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	products, err := s.repo.ListBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(products))
	for i := range products {
		p := &products[i]
		alerts = append(alerts, dto.StockAlertResponse{
			ProductID:    p.ID.String(),
			Barcode:      p.Barcode,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
		})
	}
	return alerts, nil
}

// invalidatePriceCache is best-effort — a stale entry expires on its own TTL.
func (s *productService) invalidatePriceCache(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PriceCacheKeyPrefix+barcode).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("failed to invalidate price cache")
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:           p.ID.String(),
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		Unit:         p.Unit,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
	if p.SupplierID != nil {
		s := p.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}
