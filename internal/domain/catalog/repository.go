package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// ProductRepository persists products. All reads exclude soft-deleted
// products unless stated otherwise.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Product, error)
	List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Product], error)
	ListBelowThreshold(ctx context.Context, storeID uuid.UUID) ([]*Product, error)
	Create(ctx context.Context, product *Product) error
	Save(ctx context.Context, product *Product) error

	// DecrementStock runs the guarded conditional update
	// (stock = stock - amount where stock >= amount). Zero affected
	// rows means insufficient stock and returns ErrInsufficientStock.
	DecrementStock(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// IncrementStock adds to the denormalized counter unconditionally.
	IncrementStock(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}
