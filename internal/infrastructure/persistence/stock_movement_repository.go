package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormStockMovementRepository implements ledger.StockMovementRepository.
// The journal is append-only; there are no update or delete paths.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a GormStockMovementRepository.
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends journal rows.
func (r *GormStockMovementRepository) Create(ctx context.Context, movements ...*ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	rows := make([]models.StockMovementModel, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, *models.StockMovementModelFromDomain(m))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create stock movements: %w", err)
	}
	return nil
}

// ListByProduct returns a page of the product's journal, newest first.
func (r *GormStockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.StockMovement], error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock movements: %w", err)
	}

	var rows []models.StockMovementModel
	err := query.
		Order("occurred_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	return &shared.Paginated[*ledger.StockMovement]{
		Items:      models.StockMovementsToDomain(rows),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}
