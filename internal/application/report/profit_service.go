package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/report"
	"github.com/retail/backoffice/internal/domain/shared"
)

// ProfitService computes the per-period financial summary from rows
// the ledger already persisted: revenue and COGS from sale lines,
// waste from negative adjustments. It never re-prices anything.
type ProfitService struct {
	reports report.ProfitReportRepository
	logger  *zap.Logger
}

// NewProfitService creates a ProfitService.
func NewProfitService(reports report.ProfitReportRepository, logger *zap.Logger) *ProfitService {
	return &ProfitService{
		reports: reports,
		logger:  logger,
	}
}

// Summary computes the profit summary for [from, to].
func (s *ProfitService) Summary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*report.ProfitSummary, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}

	revenue, cogs, count, err := s.reports.SalesTotals(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}

	waste, err := s.reports.WasteTotal(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}

	gross := revenue.Sub(cogs)

	summary := &report.ProfitSummary{
		StoreID:     storeID,
		From:        from,
		To:          to,
		Revenue:     revenue,
		COGS:        cogs,
		GrossProfit: gross,
		Waste:       waste,
		NetProfit:   gross.Sub(waste),
		SaleCount:   count,
	}

	s.logger.Debug("profit summary computed",
		zap.String("store_id", storeID.String()),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("sales", count),
	)

	return summary, nil
}
