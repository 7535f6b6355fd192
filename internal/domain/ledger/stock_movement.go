package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// MovementType classifies a stock movement journal entry.
type MovementType string

const (
	MovementReceive        MovementType = "receive"
	MovementSale           MovementType = "sale"
	MovementConvertOut     MovementType = "convert_out"
	MovementConvertIn      MovementType = "convert_in"
	MovementAdjustIncrease MovementType = "adjust_increase"
	MovementAdjustDecrease MovementType = "adjust_decrease"
)

// IsValid checks the movement type is one of the known values.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReceive, MovementSale, MovementConvertOut, MovementConvertIn,
		MovementAdjustIncrease, MovementAdjustDecrease:
		return true
	}
	return false
}

// IsOutbound reports whether the movement removes stock.
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementSale, MovementConvertOut, MovementAdjustDecrease:
		return true
	}
	return false
}

// StockMovement is one append-only journal row: a single batch touch
// (or an unbatched touch, BatchID nil) with the cost it carried. Rows
// are immutable after creation.
type StockMovement struct {
	shared.BaseEntity
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	BatchID    *uuid.UUID
	Type       MovementType
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
	Reference  string
	OccurredAt time.Time
}

// NewStockMovement creates a journal row. Quantity is always positive;
// direction is carried by the movement type.
func NewStockMovement(storeID, productID uuid.UUID, batchID *uuid.UUID, movementType MovementType, quantity, unitCost decimal.Decimal, reference string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		ProductID:  productID,
		BatchID:    batchID,
		Type:       movementType,
		Quantity:   quantity,
		UnitCost:   unitCost,
		TotalCost:  quantity.Mul(unitCost),
		Reference:  reference,
		OccurredAt: time.Now(),
	}, nil
}

// MovementsFromPlan builds one journal row per consumption slice.
func MovementsFromPlan(storeID, productID uuid.UUID, movementType MovementType, plan ConsumptionList, reference string) ([]*StockMovement, error) {
	movements := make([]*StockMovement, 0, len(plan))
	for _, c := range plan {
		m, err := NewStockMovement(storeID, productID, c.BatchID, movementType, c.Quantity, c.UnitCost, reference)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}
