package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// ProductStatus is the lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusDeleted ProductStatus = "deleted"
)

// Product is the aggregate root for a sellable item. Stock is the
// denormalized total across the product's active batches and is only
// mutated inside the same transaction as the batch rows it mirrors.
type Product struct {
	shared.StoreAggregateRoot
	Code          string
	Name          string
	Unit          string
	SellingPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
	HppPrice      decimal.Decimal
	Stock         decimal.Decimal
	Threshold     decimal.Decimal

	// ConversionTargetID and ConversionRate describe the bulk-to-retail
	// breakdown: converting one unit of this product yields
	// ConversionRate units of the target product.
	ConversionTargetID *uuid.UUID
	ConversionRate     decimal.Decimal

	Status ProductStatus
}

// NewProduct creates an active product with zero stock.
func NewProduct(storeID uuid.UUID, code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToUpper(code),
		Name:               name,
		Unit:               unit,
		SellingPrice:       decimal.Zero,
		PurchasePrice:      decimal.Zero,
		HppPrice:           decimal.Zero,
		Stock:              decimal.Zero,
		Threshold:          decimal.Zero,
		ConversionRate:     decimal.Zero,
		Status:             ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update changes the product's display fields.
func (p *Product) Update(name, unit string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}

	p.Name = name
	p.Unit = unit
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices sets the selling price and both cost references.
func (p *Product) SetPrices(selling, purchase, hpp decimal.Decimal) error {
	if selling.IsNegative() || purchase.IsNegative() || hpp.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.SellingPrice = selling
	p.PurchasePrice = purchase
	p.HppPrice = hpp
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetThreshold sets the low-stock alert threshold.
func (p *Product) SetThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	p.Threshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ConfigureConversion links this product to its retail counterpart.
// Rate is how many target units one source unit breaks down into.
func (p *Product) ConfigureConversion(targetID uuid.UUID, rate decimal.Decimal) error {
	if targetID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONVERSION", "Conversion target is required")
	}
	if targetID == p.ID {
		return shared.NewDomainError("INVALID_CONVERSION", "Product cannot convert into itself")
	}
	if !rate.IsPositive() {
		return shared.NewDomainError("INVALID_CONVERSION", "Conversion rate must be positive")
	}

	p.ConversionTargetID = &targetID
	p.ConversionRate = rate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ClearConversion removes the conversion link.
func (p *Product) ClearConversion() {
	p.ConversionTargetID = nil
	p.ConversionRate = decimal.Zero
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ConversionConfigured reports whether the product can be converted.
func (p *Product) ConversionConfigured() bool {
	return p.ConversionTargetID != nil && p.ConversionRate.IsPositive()
}

// FallbackUnitCost is the unit cost used for stock that is not backed by
// any batch: the recorded average cost when present, otherwise the last
// purchase price, otherwise zero.
func (p *Product) FallbackUnitCost() decimal.Decimal {
	if p.HppPrice.IsPositive() {
		return p.HppPrice
	}
	if p.PurchasePrice.IsPositive() {
		return p.PurchasePrice
	}
	return decimal.Zero
}

// MarkDeleted soft-deletes the product. Stock history is retained; the
// product just stops appearing in catalog and deduction reads.
func (p *Product) MarkDeleted() error {
	if p.Status == ProductStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Product is already deleted")
	}

	p.Status = ProductStatusDeleted
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsDeleted returns true for soft-deleted products.
func (p *Product) IsDeleted() bool {
	return p.Status == ProductStatusDeleted
}

// IsBelowThreshold reports whether current stock is at or below the
// alert threshold. A zero threshold disables the alert.
func (p *Product) IsBelowThreshold() bool {
	return p.Threshold.IsPositive() && p.Stock.LessThanOrEqual(p.Threshold)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
