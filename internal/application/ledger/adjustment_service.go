package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// AdjustmentService corrects stock by a signed delta. Negative deltas
// run through the deduction engine so waste is costed exactly like a
// sale; positive deltas create a new batch at the product fallback
// cost, since found stock has no provenance.
type AdjustmentService struct {
	scope     TransactionScope
	deduction *DeductionService
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAdjustmentService creates an AdjustmentService.
func NewAdjustmentService(scope TransactionScope, deduction *DeductionService, publisher shared.EventPublisher, logger *zap.Logger) *AdjustmentService {
	return &AdjustmentService{
		scope:     scope,
		deduction: deduction,
		publisher: publisher,
		logger:    logger,
	}
}

// Adjust applies the delta and records an append-only adjustment row.
func (s *AdjustmentService) Adjust(ctx context.Context, req AdjustRequest) (*AdjustmentResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Adjustment reason is required")
	}
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Adjustment delta cannot be zero")
	}

	var resp *AdjustmentResponse
	var alert *catalog.StockBelowThresholdEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		var unitCost decimal.Decimal
		if req.Delta.IsNegative() {
			deduction, dedAlert, err := s.deduction.DeductWithin(ctx, repos, req.ProductID, req.Delta.Abs(), ledger.MovementAdjustDecrease, adjustmentReference(req.Reason))
			if err != nil {
				return err
			}
			alert = dedAlert
			unitCost = deduction.WeightedUnitCost
		} else {
			unitCost = product.FallbackUnitCost()

			batch, err := ledger.NewStockBatch(req.ProductID, fmt.Sprintf("ADJ-%s", timeNow().Format("20060102150405")), req.Delta, unitCost, nil, timeNow())
			if err != nil {
				return err
			}
			if err := repos.Batches().Create(ctx, batch); err != nil {
				return err
			}
			if err := repos.Products().IncrementStock(ctx, req.ProductID, req.Delta); err != nil {
				return err
			}

			batchID := batch.ID
			movement, err := ledger.NewStockMovement(product.StoreID, req.ProductID, &batchID, ledger.MovementAdjustIncrease, req.Delta, unitCost, adjustmentReference(req.Reason))
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}

		adjustment, err := ledger.NewStockAdjustment(product.StoreID, req.ProductID, req.Delta, unitCost, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.Adjustments().Create(ctx, adjustment); err != nil {
			return err
		}

		resp = &AdjustmentResponse{
			AdjustmentID: adjustment.ID,
			ProductID:    adjustment.ProductID,
			Delta:        adjustment.Delta,
			UnitCost:     adjustment.UnitCost,
			TotalCost:    adjustment.TotalCost,
			Reason:       adjustment.Reason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deduction.publishAlert(ctx, alert)

	s.logger.Info("stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("reason", req.Reason),
	)

	return resp, nil
}

func adjustmentReference(reason string) string {
	reason = strings.TrimSpace(reason)
	if len(reason) > 40 {
		reason = reason[:40]
	}
	return "ADJ: " + reason
}
