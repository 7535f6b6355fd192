package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// ConsumptionKind distinguishes stock taken from a tracked batch from
// legacy stock that predates batch tracking.
type ConsumptionKind string

const (
	ConsumptionBatchBacked ConsumptionKind = "batch_backed"
	ConsumptionUnbatched   ConsumptionKind = "unbatched"
)

// Consumption is one slice of a deduction: a quantity taken at a unit
// cost, from a specific batch or from untracked stock. Downstream cost
// math treats both kinds uniformly.
type Consumption struct {
	Kind        ConsumptionKind
	BatchID     *uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal

	// ExpiryDate is copied from the source batch at plan time.
	ExpiryDate *time.Time
}

// Cost is the total cost of this slice.
func (c Consumption) Cost() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}

// NewUnbatchedConsumption prices legacy stock from the product's
// fallback unit cost.
func NewUnbatchedConsumption(quantity, unitCost decimal.Decimal) Consumption {
	return Consumption{
		Kind:     ConsumptionUnbatched,
		Quantity: quantity,
		UnitCost: unitCost,
	}
}

// ConsumptionList is an ordered deduction plan.
type ConsumptionList []Consumption

// TotalQuantity sums the quantities of all slices.
func (l ConsumptionList) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l {
		total = total.Add(c.Quantity)
	}
	return total
}

// TotalCost sums quantity times unit cost over all slices.
func (l ConsumptionList) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l {
		total = total.Add(c.Cost())
	}
	return total
}

// WeightedUnitCost is the quantity-weighted average unit cost, rounded
// to 4 decimal places. Zero when the list is empty.
func (l ConsumptionList) WeightedUnitCost() decimal.Decimal {
	qty := l.TotalQuantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	return l.TotalCost().Div(qty).Round(4)
}

// PlanDeduction walks batches in the given order and plans which batch
// yields how much until quantity is covered. Batches must already be
// sorted (see SortBatchesFEFO) and active. The shortfall check runs
// before any slice is produced, so an insufficient total plans nothing.
func PlanDeduction(quantity decimal.Decimal, batches []*StockBatch) (ConsumptionList, error) {
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}

	available := decimal.Zero
	for _, b := range batches {
		available = available.Add(b.Quantity)
	}
	if available.LessThan(quantity) {
		return nil, shared.ErrInsufficientStock
	}

	plan := make(ConsumptionList, 0, len(batches))
	remaining := quantity
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		if !take.IsPositive() {
			continue
		}
		batchID := b.ID
		plan = append(plan, Consumption{
			Kind:        ConsumptionBatchBacked,
			BatchID:     &batchID,
			BatchNumber: b.BatchNumber,
			Quantity:    take,
			UnitCost:    b.UnitCost,
			ExpiryDate:  b.ExpiryDate,
		})
		remaining = remaining.Sub(take)
	}

	return plan, nil
}
