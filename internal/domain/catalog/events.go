package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeStockBelowThreshold = "catalog.product.stock_below_threshold"
)

// ProductCreatedEvent is raised when a product enters the catalog.
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	StoreID     uuid.UUID
	ProductCode string
	ProductName string
}

// NewProductCreatedEvent creates a ProductCreatedEvent.
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, p.ID),
		StoreID:         p.StoreID,
		ProductCode:     p.Code,
		ProductName:     p.Name,
	}
}

// StockBelowThresholdEvent is raised after a committed deduction leaves a
// product at or below its alert threshold.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	StoreID     uuid.UUID
	ProductName string
	Stock       decimal.Decimal
	Threshold   decimal.Decimal
}

// NewStockBelowThresholdEvent creates a StockBelowThresholdEvent.
func NewStockBelowThresholdEvent(storeID, productID uuid.UUID, name string, stock, threshold decimal.Decimal) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, productID),
		StoreID:         storeID,
		ProductName:     name,
		Stock:           stock,
		Threshold:       threshold,
	}
}
