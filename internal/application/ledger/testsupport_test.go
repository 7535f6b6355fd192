package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
)

// memStore is an in-memory datastore backing all repositories. The
// guarded decrements mirror the conditional SQL updates the real
// repositories issue.
type memStore struct {
	mu          sync.Mutex
	products    map[uuid.UUID]*catalog.Product
	batches     map[uuid.UUID]*ledger.StockBatch
	movements   []*ledger.StockMovement
	adjustments []*ledger.StockAdjustment
	sales       []*trade.Sale
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uuid.UUID]*catalog.Product),
		batches:  make(map[uuid.UUID]*ledger.StockBatch),
	}
}

func (m *memStore) addProduct(p *catalog.Product)    { m.products[p.ID] = p }
func (m *memStore) addBatch(b *ledger.StockBatch)    { m.batches[b.ID] = b }
func (m *memStore) repos() TransactionalRepositories {
	return &StaticRepositories{
		ProductRepo:    &memProductRepo{m},
		BatchRepo:      &memBatchRepo{m},
		MovementRepo:   &memMovementRepo{m},
		AdjustmentRepo: &memAdjustmentRepo{m},
		SaleRepo:       &memSaleRepo{m},
	}
}

func (m *memStore) scope() TransactionScope {
	return &NoOpTransactionScope{Repos: m.repos()}
}

// activeBatchTotal sums active batch stock for invariant checks.
func (m *memStore) activeBatchTotal(productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, b := range m.batches {
		if b.ProductID == productID && b.IsActive() {
			total = total.Add(b.Quantity)
		}
	}
	return total
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.StoreID == storeID && p.Code == code && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) List(_ context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*catalog.Product
	for _, p := range r.s.products {
		if p.StoreID == storeID && !p.IsDeleted() {
			items = append(items, p)
		}
	}
	return &shared.Paginated[*catalog.Product]{Items: items, TotalCount: int64(len(items)), Page: 1, PageSize: len(items)}, nil
}

func (r *memProductRepo) ListBelowThreshold(_ context.Context, storeID uuid.UUID) ([]*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*catalog.Product
	for _, p := range r.s.products {
		if p.StoreID == storeID && !p.IsDeleted() && p.IsBelowThreshold() {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *memProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) DecrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.IsDeleted() || p.Stock.LessThan(amount) {
		return shared.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(amount)
	return nil
}

func (r *memProductRepo) IncrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Stock = p.Stock.Add(amount)
	return nil
}

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *memBatchRepo) ListActiveByProduct(_ context.Context, productID uuid.UUID) ([]*ledger.StockBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var active []*ledger.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.IsActive() {
			active = append(active, b)
		}
	}
	ledger.SortBatchesFEFO(active)
	return active, nil
}

func (r *memBatchRepo) ListByProduct(_ context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.StockBatch], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*ledger.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			items = append(items, b)
		}
	}
	return &shared.Paginated[*ledger.StockBatch]{Items: items, TotalCount: int64(len(items)), Page: 1, PageSize: len(items)}, nil
}

func (r *memBatchRepo) Create(_ context.Context, b *ledger.StockBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches[b.ID] = b
	return nil
}

func (r *memBatchRepo) Decrement(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok || b.Quantity.LessThan(amount) {
		return shared.ErrInsufficientBatchStock
	}
	b.Quantity = b.Quantity.Sub(amount)
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, movements ...*ledger.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, movements...)
	return nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.StockMovement], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*ledger.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			items = append(items, m)
		}
	}
	return &shared.Paginated[*ledger.StockMovement]{Items: items, TotalCount: int64(len(items)), Page: 1, PageSize: len(items)}, nil
}

type memAdjustmentRepo struct{ s *memStore }

func (r *memAdjustmentRepo) Create(_ context.Context, a *ledger.StockAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.adjustments = append(r.s.adjustments, a)
	return nil
}

func (r *memAdjustmentRepo) ListByStore(_ context.Context, storeID uuid.UUID, from, to time.Time) ([]*ledger.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*ledger.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.StoreID == storeID && !a.AdjustedAt.Before(from) && !a.AdjustedAt.After(to) {
			items = append(items, a)
		}
	}
	return items, nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(_ context.Context, sale *trade.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales = append(r.s.sales, sale)
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSaleRepo) ListByPeriod(_ context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*trade.Sale], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*trade.Sale
	for _, s := range r.s.sales {
		if s.StoreID == storeID && !s.SoldAt.Before(from) && !s.SoldAt.After(to) {
			items = append(items, s)
		}
	}
	return &shared.Paginated[*trade.Sale]{Items: items, TotalCount: int64(len(items)), Page: 1, PageSize: len(items)}, nil
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}
