package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"martpos/internal/dto"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services detect the nil *gorm.DB and run the
// transaction body directly, so the stubs simply mutate maps. They return
// copies the way a real query materializes fresh rows, which keeps the
// ledger's previous/new snapshots honest.

// ── product stub ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.find(id)
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) ListBelowMinStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.CurrentStock <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.find(id)
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.find(id)
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock += delta
	return nil
}

func (r *stubProductRepo) UpdatePricesTx(_ *gorm.DB, id uuid.UUID, cost, selling interface{}) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// The real repository writes decimals via SQL; the stub just mirrors them.
	if c, ok := cost.(decimal.Decimal); ok {
		p.CostPrice = c
	}
	if s, ok := selling.(decimal.Decimal); ok {
		p.SellingPrice = s
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) find(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

// ── batch stub ────────────────────────────────────────────────────────────────

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.Batch
	seq     int // insertion order stands in for created_at tiebreaks
}

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[uuid.UUID]*model.Batch)}
}

func (r *stubBatchRepo) add(b *model.Batch) *model.Batch {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.seq++
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Unix(int64(r.seq), 0)
	}
	r.batches[b.ID] = b
	return b
}

func (r *stubBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Batch, error) {
	return r.find(id)
}

func (r *stubBatchRepo) FindByNumber(_ context.Context, number string) (*model.Batch, error) {
	for _, b := range r.batches {
		if b.BatchNumber == number {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBatchRepo) List(_ context.Context, filter repository.BatchFilter) ([]model.Batch, int64, error) {
	out := r.sorted(func(b *model.Batch) bool {
		if filter.ProductID != nil && b.ProductID != *filter.ProductID {
			return false
		}
		if filter.Status != "" && b.Status != filter.Status {
			return false
		}
		return true
	})
	return out, int64(len(out)), nil
}

func (r *stubBatchRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.Batch, error) {
	return r.sorted(func(b *model.Batch) bool { return b.ProductID == productID }), nil
}

func (r *stubBatchRepo) CreateTx(_ *gorm.DB, b *model.Batch) error {
	cp := *b
	r.add(&cp)
	b.ID = cp.ID
	b.CreatedAt = cp.CreatedAt
	return nil
}

func (r *stubBatchRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	return r.find(id)
}

func (r *stubBatchRepo) UpdateTx(_ *gorm.DB, b *model.Batch) error {
	if _, ok := r.batches[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *stubBatchRepo) FindConsumableTx(_ *gorm.DB, productID uuid.UUID, now time.Time) ([]model.Batch, error) {
	return r.sorted(func(b *model.Batch) bool {
		if b.ProductID != productID || b.Status != model.BatchActive {
			return false
		}
		if b.AvailableQuantity() <= 0 {
			return false
		}
		if b.ExpiryDate != nil && !b.ExpiryDate.After(now) {
			return false
		}
		return true
	}), nil
}

func (r *stubBatchRepo) ListExpiredCandidates(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, b := range r.sorted(func(b *model.Batch) bool {
		return b.Status == model.BatchActive && b.CurrentQuantity > 0 &&
			b.ExpiryDate != nil && b.ExpiryDate.Before(cutoff)
	}) {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (r *stubBatchRepo) SumCurrentQuantity(_ context.Context, productID uuid.UUID) (int, error) {
	sum := 0
	for _, b := range r.batches {
		if b.ProductID == productID && !b.Status.Terminal() {
			sum += b.CurrentQuantity
		}
	}
	return sum, nil
}

func (r *stubBatchRepo) DB() *gorm.DB { return nil }

func (r *stubBatchRepo) find(id uuid.UUID) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBatchRepo) sorted(keep func(*model.Batch) bool) []model.Batch {
	var out []model.Batch
	for _, b := range r.batches {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.Before(out[j].PurchaseDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ── ledger stub ───────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []model.StockLedgerEntry
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.StockLedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) List(_ context.Context, filter repository.StockLedgerFilter) ([]model.StockLedgerEntry, int64, error) {
	var out []model.StockLedgerEntry
	for _, e := range r.entries {
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != "" && e.MovementType != filter.MovementType {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubLedgerRepo) ListByProduct(ctx context.Context, productID uuid.UUID, _, _ int) ([]model.StockLedgerEntry, int64, error) {
	return r.List(ctx, repository.StockLedgerFilter{ProductID: &productID})
}

func (r *stubLedgerRepo) byType(mt model.MovementType) []model.StockLedgerEntry {
	var out []model.StockLedgerEntry
	for _, e := range r.entries {
		if e.MovementType == mt {
			out = append(out, e)
		}
	}
	return out
}

// ── sequence stub ─────────────────────────────────────────────────────────────

type stubSequenceRepo struct {
	counters map[uuid.UUID]int
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[uuid.UUID]int)}
}

func (r *stubSequenceRepo) NextBatchNumberTx(_ *gorm.DB, productID uuid.UUID, at time.Time) (string, error) {
	r.counters[productID]++
	return fmt.Sprintf("BATCH-%s-%s-%04d", at.Format("060102"), productID.String()[:6], r.counters[productID]), nil
}

// ── alert dispatcher recorder ─────────────────────────────────────────────────

type recordingDispatcher struct {
	payloads []interface{}
}

func (d *recordingDispatcher) EnqueueStockAlert(_ context.Context, payload interface{}) error {
	d.payloads = append(d.payloads, payload)
	return nil
}
