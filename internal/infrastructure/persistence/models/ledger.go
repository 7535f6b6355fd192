package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/ledger"
)

// StockBatchModel is the persistence shape of ledger.StockBatch.
type StockBatchModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_batches_product"`
	BatchNumber        string          `gorm:"type:varchar(100)"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiryDate         *time.Time      `gorm:"index"`
	ReceivedAt         time.Time       `gorm:"not null"`
	DerivedFromBatchID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to the domain entity.
func (m *StockBatchModel) ToDomain() *ledger.StockBatch {
	b := &ledger.StockBatch{
		ProductID:          m.ProductID,
		BatchNumber:        m.BatchNumber,
		Quantity:           m.Quantity,
		UnitCost:           m.UnitCost,
		ExpiryDate:         m.ExpiryDate,
		ReceivedAt:         m.ReceivedAt,
		DerivedFromBatchID: m.DerivedFromBatchID,
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return b
}

// StockBatchModelFromDomain converts the domain entity for persistence.
func StockBatchModelFromDomain(b *ledger.StockBatch) *StockBatchModel {
	return &StockBatchModel{
		ID:                 b.ID,
		ProductID:          b.ProductID,
		BatchNumber:        b.BatchNumber,
		Quantity:           b.Quantity,
		UnitCost:           b.UnitCost,
		ExpiryDate:         b.ExpiryDate,
		ReceivedAt:         b.ReceivedAt,
		DerivedFromBatchID: b.DerivedFromBatchID,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// StockBatchesToDomain maps a slice of models to domain entities.
func StockBatchesToDomain(models []StockBatchModel) []*ledger.StockBatch {
	batches := make([]*ledger.StockBatch, 0, len(models))
	for i := range models {
		batches = append(batches, models[i].ToDomain())
	}
	return batches
}

// StockMovementModel is the persistence shape of ledger.StockMovement.
type StockMovementModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_product"`
	BatchID    *uuid.UUID      `gorm:"type:uuid"`
	Type       string          `gorm:"type:varchar(30);not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference  string          `gorm:"type:varchar(100)"`
	OccurredAt time.Time       `gorm:"not null;index"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to the domain entity.
func (m *StockMovementModel) ToDomain() *ledger.StockMovement {
	movement := &ledger.StockMovement{
		StoreID:    m.StoreID,
		ProductID:  m.ProductID,
		BatchID:    m.BatchID,
		Type:       ledger.MovementType(m.Type),
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		Reference:  m.Reference,
		OccurredAt: m.OccurredAt,
	}
	movement.ID = m.ID
	movement.CreatedAt = m.CreatedAt
	movement.UpdatedAt = m.UpdatedAt
	return movement
}

// StockMovementModelFromDomain converts the domain entity for persistence.
func StockMovementModelFromDomain(m *ledger.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:         m.ID,
		StoreID:    m.StoreID,
		ProductID:  m.ProductID,
		BatchID:    m.BatchID,
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		Reference:  m.Reference,
		OccurredAt: m.OccurredAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// StockMovementsToDomain maps a slice of models to domain entities.
func StockMovementsToDomain(models []StockMovementModel) []*ledger.StockMovement {
	movements := make([]*ledger.StockMovement, 0, len(models))
	for i := range models {
		movements = append(movements, models[i].ToDomain())
	}
	return movements
}

// StockAdjustmentModel is the persistence shape of ledger.StockAdjustment.
type StockAdjustmentModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Delta      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason     string          `gorm:"type:varchar(200);not null"`
	AdjustedAt time.Time       `gorm:"not null;index"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockAdjustmentModel) TableName() string {
	return "stock_adjustments"
}

// ToDomain converts the persistence model to the domain entity.
func (m *StockAdjustmentModel) ToDomain() *ledger.StockAdjustment {
	a := &ledger.StockAdjustment{
		StoreID:    m.StoreID,
		ProductID:  m.ProductID,
		Delta:      m.Delta,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		Reason:     m.Reason,
		AdjustedAt: m.AdjustedAt,
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return a
}

// StockAdjustmentModelFromDomain converts the domain entity for persistence.
func StockAdjustmentModelFromDomain(a *ledger.StockAdjustment) *StockAdjustmentModel {
	return &StockAdjustmentModel{
		ID:         a.ID,
		StoreID:    a.StoreID,
		ProductID:  a.ProductID,
		Delta:      a.Delta,
		UnitCost:   a.UnitCost,
		TotalCost:  a.TotalCost,
		Reason:     a.Reason,
		AdjustedAt: a.AdjustedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
