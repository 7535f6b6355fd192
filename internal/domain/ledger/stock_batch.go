package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/shared"
)

// StockBatch is one receipt of stock for a product. Quantity is what
// remains; UnitCost is fixed at creation and never changes afterwards.
// Batches are never deleted: a batch at zero quantity is inactive but
// stays on record for the cost audit trail.
type StockBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	ExpiryDate  *time.Time
	ReceivedAt  time.Time

	// DerivedFromBatchID links a batch created by unit conversion back
	// to the bulk batch it came from.
	DerivedFromBatchID *uuid.UUID
}

// NewStockBatch creates a batch for received stock.
func NewStockBatch(productID uuid.UUID, batchNumber string, quantity, unitCost decimal.Decimal, expiryDate *time.Time, receivedAt time.Time) (*StockBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch requires a product")
	}
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return &StockBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		UnitCost:    unitCost,
		ExpiryDate:  expiryDate,
		ReceivedAt:  receivedAt,
	}, nil
}

// NewDerivedBatch creates a retail batch produced by converting part of
// a bulk batch. Expiry is inherited from the source; the batch number
// gets an "-R" suffix for operators, but lineage is carried by
// DerivedFromBatchID.
func NewDerivedBatch(targetProductID uuid.UUID, source *StockBatch, quantity, unitCost decimal.Decimal) (*StockBatch, error) {
	batch, err := NewStockBatch(targetProductID, derivedBatchNumber(source.BatchNumber), quantity, unitCost, source.ExpiryDate, time.Now())
	if err != nil {
		return nil, err
	}
	sourceID := source.ID
	batch.DerivedFromBatchID = &sourceID
	return batch, nil
}

func derivedBatchNumber(sourceNumber string) string {
	if sourceNumber == "" {
		return ""
	}
	return fmt.Sprintf("%s-R", sourceNumber)
}

// IsActive reports whether the batch still holds stock.
func (b *StockBatch) IsActive() bool {
	return b.Quantity.IsPositive()
}

// IsExpired reports whether the batch is past its expiry date.
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// Take removes amount from the batch in memory. The persistent guard is
// the conditional SQL decrement; this keeps loaded aggregates coherent.
func (b *StockBatch) Take(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidQuantity
	}
	if b.Quantity.LessThan(amount) {
		return shared.NewInsufficientBatchStockError(b.BatchNumber, amount)
	}
	b.Quantity = b.Quantity.Sub(amount)
	b.Touch()
	return nil
}

// SortBatchesFEFO orders batches for deduction: earliest expiry first,
// batches without expiry last, ties broken by receipt time (FIFO).
func SortBatchesFEFO(batches []*StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.ReceivedAt.Before(b.ReceivedAt)
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ReceivedAt.Before(b.ReceivedAt)
		default:
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
	})
}
