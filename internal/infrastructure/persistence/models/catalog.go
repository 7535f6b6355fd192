package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail/backoffice/internal/domain/catalog"
)

// ProductModel is the persistence shape of catalog.Product.
type ProductModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_store_code,priority:1"`
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_store_code,priority:2"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Unit               string          `gorm:"type:varchar(20);not null"`
	SellingPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	HppPrice           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Threshold          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ConversionTargetID *uuid.UUID      `gorm:"type:uuid"`
	ConversionRate     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status             string          `gorm:"type:varchar(20);not null;default:'active';index"`
	Version            int             `gorm:"not null;default:1"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to the domain aggregate.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		Code:               m.Code,
		Name:               m.Name,
		Unit:               m.Unit,
		SellingPrice:       m.SellingPrice,
		PurchasePrice:      m.PurchasePrice,
		HppPrice:           m.HppPrice,
		Stock:              m.Stock,
		Threshold:          m.Threshold,
		ConversionTargetID: m.ConversionTargetID,
		ConversionRate:     m.ConversionRate,
		Status:             catalog.ProductStatus(m.Status),
	}
	p.ID = m.ID
	p.StoreID = m.StoreID
	p.Version = m.Version
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt
	return p
}

// ProductModelFromDomain converts the domain aggregate for persistence.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:                 p.ID,
		StoreID:            p.StoreID,
		Code:               p.Code,
		Name:               p.Name,
		Unit:               p.Unit,
		SellingPrice:       p.SellingPrice,
		PurchasePrice:      p.PurchasePrice,
		HppPrice:           p.HppPrice,
		Stock:              p.Stock,
		Threshold:          p.Threshold,
		ConversionTargetID: p.ConversionTargetID,
		ConversionRate:     p.ConversionRate,
		Status:             string(p.Status),
		Version:            p.Version,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ProductsToDomain maps a slice of models to domain aggregates.
func ProductsToDomain(models []ProductModel) []*catalog.Product {
	products := make([]*catalog.Product, 0, len(models))
	for i := range models {
		products = append(products, models[i].ToDomain())
	}
	return products
}
