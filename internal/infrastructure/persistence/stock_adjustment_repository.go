package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormStockAdjustmentRepository implements
// ledger.StockAdjustmentRepository. Adjustment rows are append-only.
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a GormStockAdjustmentRepository.
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// Create appends an adjustment record.
func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustment *ledger.StockAdjustment) error {
	model := models.StockAdjustmentModelFromDomain(adjustment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create stock adjustment: %w", err)
	}
	return nil
}

// ListByStore returns the store's adjustments in [from, to].
func (r *GormStockAdjustmentRepository) ListByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*ledger.StockAdjustment, error) {
	var rows []models.StockAdjustmentModel
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND adjusted_at >= ? AND adjusted_at <= ?", storeID, from, to).
		Order("adjusted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock adjustments: %w", err)
	}

	adjustments := make([]*ledger.StockAdjustment, 0, len(rows))
	for i := range rows {
		adjustments = append(adjustments, rows[i].ToDomain())
	}
	return adjustments, nil
}
