package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// StockBatchRepository persists stock batches.
type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)

	// ListActiveByProduct returns batches with quantity > 0 for the
	// product, ordered expiry asc with nulls last, then receipt asc.
	// Reading never mutates: repeated calls with no writes in between
	// return the same rows.
	ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*StockBatch, error)

	ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockBatch], error)
	Create(ctx context.Context, batch *StockBatch) error

	// Decrement runs the guarded conditional update
	// (quantity = quantity - amount where quantity >= amount). Zero
	// affected rows returns ErrInsufficientBatchStock.
	Decrement(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// StockMovementRepository appends to the movement journal.
type StockMovementRepository interface {
	Create(ctx context.Context, movements ...*StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockMovement], error)
}

// StockAdjustmentRepository persists adjustment records.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *StockAdjustment) error
	ListByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]*StockAdjustment, error)
}
