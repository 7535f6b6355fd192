package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retail/backoffice/internal/domain/shared"
)

// SaleRepository persists sales with their lines.
type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListByPeriod(ctx context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*Sale], error)
}
