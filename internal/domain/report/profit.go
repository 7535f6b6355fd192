package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitSummary is the per-period financial summary. COGS and Waste are
// computed from recorded cost basis rows, never from current list
// prices.
type ProfitSummary struct {
	StoreID     uuid.UUID
	From        time.Time
	To          time.Time
	Revenue     decimal.Decimal
	COGS        decimal.Decimal
	GrossProfit decimal.Decimal
	Waste       decimal.Decimal
	NetProfit   decimal.Decimal
	SaleCount   int64
}

// ProfitReportRepository aggregates persisted sales and adjustments.
type ProfitReportRepository interface {
	// SalesTotals returns revenue (sum of line amounts), COGS (sum of
	// recorded line cost basis) and the number of sales in the period.
	SalesTotals(ctx context.Context, storeID uuid.UUID, from, to time.Time) (revenue, cogs decimal.Decimal, count int64, err error)

	// WasteTotal sums the absolute cost of negative adjustments in the
	// period.
	WasteTotal(ctx context.Context, storeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
