package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormSaleRepository implements trade.SaleRepository.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a GormSaleRepository.
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts the sale together with its lines.
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// FindByID loads a sale with its lines.
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return model.ToDomain(), nil
}

// ListByPeriod returns a page of the store's sales in [from, to],
// newest first.
func (r *GormSaleRepository) ListByPeriod(ctx context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*trade.Sale], error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("store_id = ? AND sold_at >= ? AND sold_at <= ?", storeID, from, to)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	var rows []models.SaleModel
	err := query.
		Preload("Lines").
		Order("sold_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	sales := make([]*trade.Sale, 0, len(rows))
	for i := range rows {
		sales = append(sales, rows[i].ToDomain())
	}

	return &shared.Paginated[*trade.Sale]{
		Items:      sales,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}
