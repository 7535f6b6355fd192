package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormStockBatchRepository implements ledger.StockBatchRepository.
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a GormStockBatchRepository.
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID loads a batch.
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockBatch, error) {
	var model models.StockBatchModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock batch: %w", err)
	}
	return model.ToDomain(), nil
}

// ListActiveByProduct returns batches with remaining stock in FEFO
// order: earliest expiry first, no-expiry batches last, receipt time
// breaking ties.
func (r *GormStockBatchRepository) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*ledger.StockBatch, error) {
	var rows []models.StockBatchModel
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND quantity > 0", productID).
		Order("expiry_date ASC NULLS LAST, received_at ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active batches: %w", err)
	}
	return models.StockBatchesToDomain(rows), nil
}

// ListByProduct returns a page of the product's batches, empty ones
// included, newest receipt first.
func (r *GormStockBatchRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.StockBatch], error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count batches: %w", err)
	}

	var rows []models.StockBatchModel
	err := query.
		Order("received_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	return &shared.Paginated[*ledger.StockBatch]{
		Items:      models.StockBatchesToDomain(rows),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// Create inserts a new batch.
func (r *GormStockBatchRepository) Create(ctx context.Context, batch *ledger.StockBatch) error {
	model := models.StockBatchModelFromDomain(batch)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create stock batch: %w", err)
	}
	return nil
}

// Decrement is the guarded conditional update on the batch row. Zero
// affected rows means the batch no longer holds enough stock.
func (r *GormStockBatchRepository) Decrement(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientBatchStock
	}
	return nil
}
