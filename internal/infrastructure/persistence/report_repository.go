package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProfitReportRepository implements report.ProfitReportRepository
// with aggregate queries over sales and adjustments.
type GormProfitReportRepository struct {
	db *gorm.DB
}

// NewGormProfitReportRepository creates a GormProfitReportRepository.
func NewGormProfitReportRepository(db *gorm.DB) *GormProfitReportRepository {
	return &GormProfitReportRepository{db: db}
}

type salesTotalsRow struct {
	Revenue decimal.Decimal
	Cogs    decimal.Decimal
	Count   int64
}

// SalesTotals sums recorded sale totals for the period. COGS comes
// from the cost basis written at sale time, not from current prices.
func (r *GormProfitReportRepository) SalesTotals(ctx context.Context, storeID uuid.UUID, from, to time.Time) (decimal.Decimal, decimal.Decimal, int64, error) {
	var row salesTotalsRow
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(total_cost), 0) AS cogs, COUNT(*) AS count").
		Where("store_id = ? AND sold_at >= ? AND sold_at <= ?", storeID, from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return row.Revenue, row.Cogs, row.Count, nil
}

// WasteTotal sums the cost of negative adjustments in the period.
func (r *GormProfitReportRepository) WasteTotal(ctx context.Context, storeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Table("stock_adjustments").
		Select("COALESCE(SUM(total_cost), 0)").
		Where("store_id = ? AND delta < 0 AND adjusted_at >= ? AND adjusted_at <= ?", storeID, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate waste: %w", err)
	}
	return total, nil
}
