package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
)

// ConsumptionEntry is one slice of a deduction as returned to callers.
type ConsumptionEntry struct {
	BatchID     *uuid.UUID      `json:"batchId,omitempty"`
	BatchNumber string          `json:"batchNumber,omitempty"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	TotalCost   decimal.Decimal `json:"totalCost"`
}

// DeductionResult reports what a deduction consumed and what it cost.
type DeductionResult struct {
	ProductID        uuid.UUID          `json:"productId"`
	Quantity         decimal.Decimal    `json:"quantity"`
	Entries          []ConsumptionEntry `json:"entries"`
	TotalCost        decimal.Decimal    `json:"totalCost"`
	WeightedUnitCost decimal.Decimal    `json:"weightedUnitCost"`
}

// ReceiveStockRequest records a purchase receipt into a new batch.
type ReceiveStockRequest struct {
	ProductID   uuid.UUID       `json:"productId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unitCost" binding:"required"`
	BatchNumber string          `json:"batchNumber"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
	Reference   string          `json:"reference"`
}

// ReceiveStockResponse reports the created batch.
type ReceiveStockResponse struct {
	BatchID     uuid.UUID       `json:"batchId"`
	BatchNumber string          `json:"batchNumber"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	ExpiryDate  *time.Time      `json:"expiryDate,omitempty"`
}

// ConvertRequest breaks down bulk stock into the configured retail
// product.
type ConvertRequest struct {
	SourceProductID uuid.UUID       `json:"sourceProductId" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// ConversionResult reports a completed conversion.
type ConversionResult struct {
	SourceProductID uuid.UUID          `json:"sourceProductId"`
	TargetProductID uuid.UUID          `json:"targetProductId"`
	Quantity        decimal.Decimal    `json:"quantity"`
	ResultQuantity  decimal.Decimal    `json:"resultQuantity"`
	Consumed        []ConsumptionEntry `json:"consumed"`
	CreatedBatchIDs []uuid.UUID        `json:"createdBatchIds"`
}

// AdjustRequest corrects stock by a signed delta with a mandatory
// reason.
type AdjustRequest struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Delta     decimal.Decimal `json:"delta" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
}

// AdjustmentResponse reports the recorded adjustment.
type AdjustmentResponse struct {
	AdjustmentID uuid.UUID       `json:"adjustmentId"`
	ProductID    uuid.UUID       `json:"productId"`
	Delta        decimal.Decimal `json:"delta"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Reason       string          `json:"reason"`
}

func toConsumptionEntries(plan ledger.ConsumptionList) []ConsumptionEntry {
	entries := make([]ConsumptionEntry, 0, len(plan))
	for _, c := range plan {
		entries = append(entries, ConsumptionEntry{
			BatchID:     c.BatchID,
			BatchNumber: c.BatchNumber,
			Kind:        string(c.Kind),
			Quantity:    c.Quantity,
			UnitCost:    c.UnitCost,
			TotalCost:   c.Cost(),
		})
	}
	return entries
}
