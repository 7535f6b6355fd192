package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// StockAdjustment is an append-only record of a manual correction:
// spoilage, loss, found stock. Delta is signed; TotalCost is the
// absolute cost of the adjusted stock and feeds the waste line of the
// financial summary when the delta is negative.
type StockAdjustment struct {
	shared.BaseEntity
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	Delta      decimal.Decimal
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
	Reason     string
	AdjustedAt time.Time
}

// NewStockAdjustment creates an adjustment record. The reason is
// mandatory; a zero delta is rejected.
func NewStockAdjustment(storeID, productID uuid.UUID, delta, unitCost decimal.Decimal, reason string) (*StockAdjustment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Adjustment reason is required")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Adjustment delta cannot be zero")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}

	return &StockAdjustment{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		Delta:      delta,
		UnitCost:   unitCost,
		TotalCost:  delta.Abs().Mul(unitCost),
		Reason:     reason,
		AdjustedAt: time.Now(),
	}, nil
}

// IsWaste reports whether the adjustment removed stock.
func (a *StockAdjustment) IsWaste() bool {
	return a.Delta.IsNegative()
}
