package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/trade"
)

// SaleModel is the persistence shape of trade.Sale.
type SaleModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_store_sold_at,priority:1"`
	Number      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SoldAt      time.Time       `gorm:"not null;index:idx_sales_store_sold_at,priority:2"`
	Version     int             `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`

	Lines []SaleLineModel `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleLineModel is the persistence shape of trade.SaleLine. CostPrice
// is the recorded cost basis of the stock the line consumed.
type SaleLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the persistence model to the domain aggregate.
func (m *SaleModel) ToDomain() *trade.Sale {
	sale := &trade.Sale{
		Number:      m.Number,
		TotalAmount: m.TotalAmount,
		TotalCost:   m.TotalCost,
		SoldAt:      m.SoldAt,
	}
	sale.ID = m.ID
	sale.StoreID = m.StoreID
	sale.Version = m.Version
	sale.CreatedAt = m.CreatedAt
	sale.UpdatedAt = m.UpdatedAt

	sale.Lines = make([]trade.SaleLine, 0, len(m.Lines))
	for i := range m.Lines {
		sale.Lines = append(sale.Lines, *m.Lines[i].ToDomain())
	}
	return sale
}

// ToDomain converts the line model to the domain entity.
func (m *SaleLineModel) ToDomain() *trade.SaleLine {
	line := &trade.SaleLine{
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineAmount:  m.LineAmount,
		CostPrice:   m.CostPrice,
	}
	line.ID = m.ID
	line.CreatedAt = m.CreatedAt
	line.UpdatedAt = m.UpdatedAt
	return line
}

// SaleModelFromDomain converts the domain aggregate for persistence.
func SaleModelFromDomain(sale *trade.Sale) *SaleModel {
	m := &SaleModel{
		ID:          sale.ID,
		StoreID:     sale.StoreID,
		Number:      sale.Number,
		TotalAmount: sale.TotalAmount,
		TotalCost:   sale.TotalCost,
		SoldAt:      sale.SoldAt,
		Version:     sale.Version,
		CreatedAt:   sale.CreatedAt,
		UpdatedAt:   sale.UpdatedAt,
	}
	m.Lines = make([]SaleLineModel, 0, len(sale.Lines))
	for i := range sale.Lines {
		l := &sale.Lines[i]
		m.Lines = append(m.Lines, SaleLineModel{
			ID:          l.ID,
			SaleID:      l.SaleID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineAmount:  l.LineAmount,
			CostPrice:   l.CostPrice,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
		})
	}
	return m
}
