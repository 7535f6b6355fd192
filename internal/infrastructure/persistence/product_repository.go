package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a GormProductRepository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("status <> ?", string(catalog.ProductStatusDeleted))
}

// FindByID loads a product, excluding soft-deleted rows.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.active(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByCode loads a product by its store-scoped code.
func (r *GormProductRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.active(ctx).
		Where("store_id = ? AND code = ?", storeID, strings.ToUpper(code)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by code: %w", err)
	}
	return model.ToDomain(), nil
}

// List returns a page of the store's products.
func (r *GormProductRepository) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	filter.Normalize()

	query := r.active(ctx).Where("store_id = ?", storeID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy := "code"
	switch filter.OrderBy {
	case "name", "stock", "created_at":
		orderBy = filter.OrderBy
	}

	var rows []models.ProductModel
	err := query.
		Order(fmt.Sprintf("%s %s", orderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &shared.Paginated[*catalog.Product]{
		Items:      models.ProductsToDomain(rows),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// ListBelowThreshold returns products whose stock is at or below their
// positive alert threshold.
func (r *GormProductRepository) ListBelowThreshold(ctx context.Context, storeID uuid.UUID) ([]*catalog.Product, error) {
	var rows []models.ProductModel
	err := r.active(ctx).
		Where("store_id = ? AND threshold > 0 AND stock <= threshold", storeID).
		Order("stock asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return models.ProductsToDomain(rows), nil
}

// Create inserts a new product.
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Save updates a product with optimistic locking on its version.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"name":                 model.Name,
			"unit":                 model.Unit,
			"selling_price":        model.SellingPrice,
			"purchase_price":       model.PurchasePrice,
			"hpp_price":            model.HppPrice,
			"threshold":            model.Threshold,
			"conversion_target_id": model.ConversionTargetID,
			"conversion_rate":      model.ConversionRate,
			"status":               model.Status,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	return nil
}

// DecrementStock is the guarded conditional update: it only succeeds
// when the row still holds enough stock, so overlapping deductions are
// serialized by the database rather than by application locks.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND status <> ? AND stock >= ?", id, string(catalog.ProductStatusDeleted), amount).
		Update("stock", gorm.Expr("stock - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// IncrementStock adds to the aggregate counter.
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
