package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
)

// LowStockItem is one product at or below its alert threshold.
type LowStockItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
	Threshold decimal.Decimal `json:"threshold"`
}

// SnapshotCache caches the per-store low-stock snapshot. A miss returns
// (nil, false, nil).
type SnapshotCache interface {
	Get(ctx context.Context, storeID uuid.UUID) ([]LowStockItem, bool, error)
	Set(ctx context.Context, storeID uuid.UUID, items []LowStockItem, ttl time.Duration) error
	Invalidate(ctx context.Context, storeID uuid.UUID) error
}

// LowStockService is a pure reader over the aggregate stock counters.
// It observes committed state only, so a snapshot may trail the very
// latest deduction until the cache entry expires or is invalidated.
type LowStockService struct {
	products catalog.ProductRepository
	cache    SnapshotCache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewLowStockService creates a LowStockService.
func NewLowStockService(products catalog.ProductRepository, cache SnapshotCache, ttl time.Duration, logger *zap.Logger) *LowStockService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LowStockService{
		products: products,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Snapshot lists the store's products at or below threshold, serving
// from cache when a fresh snapshot exists.
func (s *LowStockService) Snapshot(ctx context.Context, storeID uuid.UUID) ([]LowStockItem, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx, storeID)
		if err != nil {
			s.logger.Warn("low stock cache read failed", zap.Error(err))
		} else if ok {
			return items, nil
		}
	}

	products, err := s.products.ListBelowThreshold(ctx, storeID)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, LowStockItem{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: p.Threshold,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, storeID, items, s.ttl); err != nil {
			s.logger.Warn("low stock cache write failed", zap.Error(err))
		}
	}

	return items, nil
}

// RefreshHandler invalidates the cached snapshot whenever a deduction
// reports a threshold crossing, so the next read sees fresh state.
type RefreshHandler struct {
	cache  SnapshotCache
	logger *zap.Logger
}

// NewRefreshHandler creates a RefreshHandler.
func NewRefreshHandler(cache SnapshotCache, logger *zap.Logger) *RefreshHandler {
	return &RefreshHandler{cache: cache, logger: logger}
}

// EventTypes subscribes the handler to threshold-crossing events.
func (h *RefreshHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Handle drops the stale snapshot for the affected store.
func (h *RefreshHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		return nil
	}
	if err := h.cache.Invalidate(ctx, e.StoreID); err != nil {
		h.logger.Warn("low stock cache invalidation failed",
			zap.String("store_id", e.StoreID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
