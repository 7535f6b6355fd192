package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/shared"
)

// CreateProductRequest describes a new catalog entry.
type CreateProductRequest struct {
	StoreID       uuid.UUID       `json:"storeId"`
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Unit          string          `json:"unit" binding:"required"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	HppPrice      decimal.Decimal `json:"hppPrice"`
	Threshold     decimal.Decimal `json:"threshold"`
}

// UpdateProductRequest updates display fields, prices and threshold.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Unit          string          `json:"unit" binding:"required"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	HppPrice      decimal.Decimal `json:"hppPrice"`
	Threshold     decimal.Decimal `json:"threshold"`
}

// ConfigureConversionRequest links a bulk product to its retail unit.
type ConfigureConversionRequest struct {
	TargetProductID uuid.UUID       `json:"targetProductId" binding:"required"`
	Rate            decimal.Decimal `json:"rate" binding:"required"`
}

// ProductService manages the catalog.
type ProductService struct {
	products  catalog.ProductRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a ProductService.
func NewProductService(products catalog.ProductRepository, publisher shared.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		products:  products,
		publisher: publisher,
		logger:    logger,
	}
}

// Create adds a product to the catalog. Codes are stored uppercase, so
// the duplicate check normalizes before the lookup.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	code := strings.ToUpper(req.Code)
	if existing, err := s.products.FindByCode(ctx, req.StoreID, code); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A product with this code already exists")
	}

	product, err := catalog.NewProduct(req.StoreID, req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.SellingPrice, req.PurchasePrice, req.HppPrice); err != nil {
		return nil, err
	}
	if err := product.SetThreshold(req.Threshold); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)

	return product, nil
}

// Get returns a product by ID.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List returns a page of the store's products.
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	filter.Normalize()
	return s.products.List(ctx, storeID, filter)
}

// Update changes display fields, prices and threshold.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Unit); err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.SellingPrice, req.PurchasePrice, req.HppPrice); err != nil {
		return nil, err
	}
	if err := product.SetThreshold(req.Threshold); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ConfigureConversion sets the bulk-to-retail link. The target must be
// an existing product in the same store.
func (s *ProductService) ConfigureConversion(ctx context.Context, id uuid.UUID, req ConfigureConversionRequest) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := s.products.FindByID(ctx, req.TargetProductID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CONVERSION", "Conversion target does not exist")
	}
	if target.StoreID != product.StoreID {
		return nil, shared.NewDomainError("INVALID_CONVERSION", "Conversion target belongs to another store")
	}

	if err := product.ConfigureConversion(target.ID, req.Rate); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft-deletes a product. Batches and movement history remain.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.MarkDeleted(); err != nil {
		return err
	}
	return s.products.Save(ctx, product)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil {
		return
	}
	events := product.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events", zap.Error(err))
	}
	product.ClearDomainEvents()
}
