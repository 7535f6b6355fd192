package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// ConversionService breaks bulk stock down into the configured retail
// product. Each consumed source slice becomes its own target batch so
// cost and expiry lineage survive the conversion.
type ConversionService struct {
	scope     TransactionScope
	deduction *DeductionService
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewConversionService creates a ConversionService.
func NewConversionService(scope TransactionScope, deduction *DeductionService, publisher shared.EventPublisher, logger *zap.Logger) *ConversionService {
	return &ConversionService{
		scope:     scope,
		deduction: deduction,
		publisher: publisher,
		logger:    logger,
	}
}

// Convert deducts quantity from the source product and materializes the
// equivalent retail stock on the target, all in one transaction.
func (s *ConversionService) Convert(ctx context.Context, sourceProductID uuid.UUID, quantity decimal.Decimal) (*ConversionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}

	var result *ConversionResult
	var alert *catalog.StockBelowThresholdEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, err := repos.Products().FindByID(ctx, sourceProductID)
		if err != nil {
			return err
		}
		if !source.ConversionConfigured() {
			return shared.ErrConversionNotConfigured
		}

		target, err := repos.Products().FindByID(ctx, *source.ConversionTargetID)
		if err != nil {
			return err
		}

		rate := source.ConversionRate
		reference := fmt.Sprintf("CONV-%s", source.Code)

		deduction, srcAlert, err := s.deduction.DeductWithin(ctx, repos, sourceProductID, quantity, ledger.MovementConvertOut, reference)
		if err != nil {
			return err
		}
		alert = srcAlert

		createdBatchIDs := make([]uuid.UUID, 0, len(deduction.Entries))
		for _, entry := range deduction.Entries {
			retailQuantity := entry.Quantity.Mul(rate)
			retailUnitCost := entry.UnitCost.Div(rate).Round(4)

			batch, err := s.targetBatch(ctx, repos, target.ID, entry, retailQuantity, retailUnitCost)
			if err != nil {
				return err
			}
			if err := repos.Batches().Create(ctx, batch); err != nil {
				return err
			}
			createdBatchIDs = append(createdBatchIDs, batch.ID)

			batchID := batch.ID
			movement, err := ledger.NewStockMovement(target.StoreID, target.ID, &batchID, ledger.MovementConvertIn, retailQuantity, retailUnitCost, reference)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}

		resultQuantity := quantity.Mul(rate)
		if err := repos.Products().IncrementStock(ctx, target.ID, resultQuantity); err != nil {
			return err
		}

		result = &ConversionResult{
			SourceProductID: sourceProductID,
			TargetProductID: target.ID,
			Quantity:        quantity,
			ResultQuantity:  resultQuantity,
			Consumed:        deduction.Entries,
			CreatedBatchIDs: createdBatchIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deduction.publishAlert(ctx, alert)

	s.logger.Info("stock converted",
		zap.String("source_product_id", result.SourceProductID.String()),
		zap.String("target_product_id", result.TargetProductID.String()),
		zap.String("quantity", result.Quantity.String()),
		zap.String("result_quantity", result.ResultQuantity.String()),
	)

	return result, nil
}

// targetBatch builds the retail batch for one consumed source slice.
// Batch-backed slices inherit expiry and lineage from their source
// batch; unbatched legacy stock gets a fresh generated batch number.
func (s *ConversionService) targetBatch(ctx context.Context, repos TransactionalRepositories, targetProductID uuid.UUID, entry ConsumptionEntry, quantity, unitCost decimal.Decimal) (*ledger.StockBatch, error) {
	if entry.BatchID == nil {
		number := fmt.Sprintf("CONV-%s", timeNow().Format("20060102150405"))
		return ledger.NewStockBatch(targetProductID, number, quantity, unitCost, nil, timeNow())
	}

	source, err := repos.Batches().FindByID(ctx, *entry.BatchID)
	if err != nil {
		return nil, err
	}
	return ledger.NewDerivedBatch(targetProductID, source, quantity, unitCost)
}
