package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appledger "github.com/retail/backoffice/internal/application/ledger"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
)

// memSaleStore is a minimal in-memory datastore for sales tests. The
// guarded decrements mirror the conditional SQL updates.
type memSaleStore struct {
	products map[uuid.UUID]*catalog.Product
	batches  map[uuid.UUID]*ledger.StockBatch
	sales    []*trade.Sale
}

func newMemSaleStore() *memSaleStore {
	return &memSaleStore{
		products: make(map[uuid.UUID]*catalog.Product),
		batches:  make(map[uuid.UUID]*ledger.StockBatch),
	}
}

func (m *memSaleStore) repos() appledger.TransactionalRepositories {
	return &appledger.StaticRepositories{
		ProductRepo:    (*saleProductRepo)(m),
		BatchRepo:      (*saleBatchRepo)(m),
		MovementRepo:   (*saleMovementRepo)(m),
		AdjustmentRepo: (*saleAdjustmentRepo)(m),
		SaleRepo:       (*saleSaleRepo)(m),
	}
}

type saleProductRepo memSaleStore

func (r *saleProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *saleProductRepo) FindByCode(context.Context, uuid.UUID, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *saleProductRepo) List(context.Context, uuid.UUID, shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	return &shared.Paginated[*catalog.Product]{}, nil
}

func (r *saleProductRepo) ListBelowThreshold(context.Context, uuid.UUID) ([]*catalog.Product, error) {
	return nil, nil
}

func (r *saleProductRepo) Create(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *saleProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *saleProductRepo) DecrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok || p.Stock.LessThan(amount) {
		return shared.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(amount)
	return nil
}

func (r *saleProductRepo) IncrementStock(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Stock = p.Stock.Add(amount)
	return nil
}

type saleBatchRepo memSaleStore

func (r *saleBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *saleBatchRepo) ListActiveByProduct(_ context.Context, productID uuid.UUID) ([]*ledger.StockBatch, error) {
	var active []*ledger.StockBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.IsActive() {
			active = append(active, b)
		}
	}
	ledger.SortBatchesFEFO(active)
	return active, nil
}

func (r *saleBatchRepo) ListByProduct(context.Context, uuid.UUID, shared.Filter) (*shared.Paginated[*ledger.StockBatch], error) {
	return &shared.Paginated[*ledger.StockBatch]{}, nil
}

func (r *saleBatchRepo) Create(_ context.Context, b *ledger.StockBatch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *saleBatchRepo) Decrement(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	b, ok := r.batches[id]
	if !ok || b.Quantity.LessThan(amount) {
		return shared.ErrInsufficientBatchStock
	}
	b.Quantity = b.Quantity.Sub(amount)
	return nil
}

type saleMovementRepo memSaleStore

func (r *saleMovementRepo) Create(context.Context, ...*ledger.StockMovement) error { return nil }

func (r *saleMovementRepo) ListByProduct(context.Context, uuid.UUID, shared.Filter) (*shared.Paginated[*ledger.StockMovement], error) {
	return &shared.Paginated[*ledger.StockMovement]{}, nil
}

type saleAdjustmentRepo memSaleStore

func (r *saleAdjustmentRepo) Create(context.Context, *ledger.StockAdjustment) error { return nil }

func (r *saleAdjustmentRepo) ListByStore(context.Context, uuid.UUID, time.Time, time.Time) ([]*ledger.StockAdjustment, error) {
	return nil, nil
}

type saleSaleRepo memSaleStore

func (r *saleSaleRepo) Create(_ context.Context, sale *trade.Sale) error {
	r.sales = append(r.sales, sale)
	return nil
}

func (r *saleSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *saleSaleRepo) ListByPeriod(context.Context, uuid.UUID, time.Time, time.Time, shared.Filter) (*shared.Paginated[*trade.Sale], error) {
	return &shared.Paginated[*trade.Sale]{}, nil
}

func newSalesFixture(store *memSaleStore) *SalesService {
	scope := &appledger.NoOpTransactionScope{Repos: store.repos()}
	deduction := appledger.NewDeductionService(scope, nil, zap.NewNop())
	return NewSalesService(scope, deduction, (*saleSaleRepo)(store), nil, zap.NewNop())
}

func addProduct(t *testing.T, store *memSaleStore, storeID uuid.UUID, code string, stock, selling int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, code, code+" product", "pcs")
	require.NoError(t, err)
	p.Stock = decimal.NewFromInt(stock)
	require.NoError(t, p.SetPrices(decimal.NewFromInt(selling), decimal.Zero, decimal.Zero))
	store.products[p.ID] = p
	return p
}

func addBatch(t *testing.T, store *memSaleStore, productID uuid.UUID, number string, qty, cost int64) *ledger.StockBatch {
	t.Helper()
	b, err := ledger.NewStockBatch(productID, number, decimal.NewFromInt(qty), decimal.NewFromInt(cost), nil, time.Now())
	require.NoError(t, err)
	store.batches[b.ID] = b
	return b
}

func TestSalesServiceCreateSale(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("records cost basis from consumed batches", func(t *testing.T) {
		store := newMemSaleStore()
		svc := newSalesFixture(store)

		rice := addProduct(t, store, storeID, "RICE-1KG", 20, 1500)
		addBatch(t, store, rice.ID, "B1", 10, 1000)
		b2 := addBatch(t, store, rice.ID, "B2", 10, 1200)
		b2.ReceivedAt = b2.ReceivedAt.Add(time.Hour)

		resp, err := svc.CreateSale(ctx, CreateSaleRequest{
			StoreID: storeID,
			Lines: []SaleLineRequest{
				{ProductID: rice.ID, Quantity: decimal.NewFromInt(15), UnitPrice: decimal.NewFromInt(1500)},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Lines, 1)
		assert.True(t, resp.Lines[0].CostPrice.Equal(decimal.NewFromInt(16000)), "10x1000 + 5x1200, not list price")
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(22500)))
		assert.True(t, rice.Stock.Equal(decimal.NewFromInt(5)))

		require.Len(t, store.sales, 1)
		assert.True(t, store.sales[0].TotalCost.Equal(decimal.NewFromInt(16000)))
	})

	t.Run("insufficient stock on any line rejects the whole sale", func(t *testing.T) {
		store := newMemSaleStore()
		svc := newSalesFixture(store)

		rice := addProduct(t, store, storeID, "RICE-1KG", 10, 1500)
		addBatch(t, store, rice.ID, "B1", 10, 1000)
		sugar := addProduct(t, store, storeID, "SUGAR-1KG", 1, 1800)
		addBatch(t, store, sugar.ID, "S1", 1, 1400)

		_, err := svc.CreateSale(ctx, CreateSaleRequest{
			StoreID: storeID,
			Lines: []SaleLineRequest{
				{ProductID: sugar.ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1800)},
				{ProductID: rice.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500)},
			},
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, store.sales)
	})

	t.Run("rejects empty and non-positive lines up front", func(t *testing.T) {
		store := newMemSaleStore()
		svc := newSalesFixture(store)

		_, err := svc.CreateSale(ctx, CreateSaleRequest{StoreID: storeID})
		require.Error(t, err)
		assert.Equal(t, "EMPTY_SALE", shared.DomainErrorCode(err))

		_, err = svc.CreateSale(ctx, CreateSaleRequest{
			StoreID: storeID,
			Lines:   []SaleLineRequest{{ProductID: uuid.New(), Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(10)}},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("multiple lines each carry their own cost", func(t *testing.T) {
		store := newMemSaleStore()
		svc := newSalesFixture(store)

		rice := addProduct(t, store, storeID, "RICE-1KG", 10, 1500)
		addBatch(t, store, rice.ID, "B1", 10, 1000)
		sugar := addProduct(t, store, storeID, "SUGAR-1KG", 10, 1800)
		addBatch(t, store, sugar.ID, "S1", 10, 1300)

		resp, err := svc.CreateSale(ctx, CreateSaleRequest{
			StoreID: storeID,
			Lines: []SaleLineRequest{
				{ProductID: rice.ID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500)},
				{ProductID: sugar.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1800)},
			},
		})
		require.NoError(t, err)

		require.Len(t, resp.Lines, 2)
		assert.True(t, resp.Lines[0].CostPrice.Equal(decimal.NewFromInt(2000)))
		assert.True(t, resp.Lines[1].CostPrice.Equal(decimal.NewFromInt(3900)))
		assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(5900)))
	})
}
