package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// DeductionService removes stock from a product batch by batch in FEFO
// order, recording the cost of every slice it takes. It is the single
// write path for sales, conversions and negative adjustments.
type DeductionService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDeductionService creates a DeductionService.
func NewDeductionService(scope TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *DeductionService {
	return &DeductionService{
		scope:     scope,
		publisher: publisher,
		logger:    logger,
	}
}

// Deduct removes quantity from the product inside its own transaction.
func (s *DeductionService) Deduct(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal, movementType ledger.MovementType, reference string) (*DeductionResult, error) {
	if !quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}

	var result *DeductionResult
	var alert *catalog.StockBelowThresholdEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, alert, err = s.DeductWithin(ctx, repos, productID, quantity, movementType, reference)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishAlert(ctx, alert)

	return result, nil
}

// DeductWithin runs the deduction against repositories that are already
// bound to the caller's transaction. The returned event, if any, must
// only be published after that transaction commits.
func (s *DeductionService) DeductWithin(ctx context.Context, repos TransactionalRepositories, productID uuid.UUID, quantity decimal.Decimal, movementType ledger.MovementType, reference string) (*DeductionResult, *catalog.StockBelowThresholdEvent, error) {
	if !quantity.IsPositive() {
		return nil, nil, shared.ErrInvalidQuantity
	}
	if !movementType.IsOutbound() {
		return nil, nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Deduction requires an outbound movement type")
	}

	product, err := repos.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	batches, err := repos.Batches().ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	var plan ledger.ConsumptionList
	if len(batches) == 0 {
		// Legacy stock with no batch rows: only the aggregate counter
		// carries the quantity, priced from the product fallback cost.
		if product.Stock.LessThan(quantity) {
			return nil, nil, shared.NewInsufficientStockError(product.Name, quantity, product.Stock)
		}
		plan = ledger.ConsumptionList{ledger.NewUnbatchedConsumption(quantity, product.FallbackUnitCost())}
	} else {
		plan, err = ledger.PlanDeduction(quantity, batches)
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				available := decimal.Zero
				for _, b := range batches {
					available = available.Add(b.Quantity)
				}
				return nil, nil, shared.NewInsufficientStockError(product.Name, quantity, available)
			}
			return nil, nil, err
		}

		for _, c := range plan {
			if err := repos.Batches().Decrement(ctx, *c.BatchID, c.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientBatchStock) {
					// Guarded update hit a stale snapshot; the scope
					// rolls back everything taken so far.
					return nil, nil, shared.NewInsufficientBatchStockError(c.BatchNumber, c.Quantity)
				}
				return nil, nil, err
			}
		}
	}

	if err := repos.Products().DecrementStock(ctx, productID, quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, nil, shared.NewInsufficientStockError(product.Name, quantity, product.Stock)
		}
		return nil, nil, err
	}

	movements, err := ledger.MovementsFromPlan(product.StoreID, productID, movementType, plan, reference)
	if err != nil {
		return nil, nil, err
	}
	if err := repos.Movements().Create(ctx, movements...); err != nil {
		return nil, nil, err
	}

	result := &DeductionResult{
		ProductID:        productID,
		Quantity:         quantity,
		Entries:          toConsumptionEntries(plan),
		TotalCost:        plan.TotalCost(),
		WeightedUnitCost: plan.WeightedUnitCost(),
	}

	var alert *catalog.StockBelowThresholdEvent
	stockAfter := product.Stock.Sub(quantity)
	if product.Threshold.IsPositive() && stockAfter.LessThanOrEqual(product.Threshold) {
		alert = catalog.NewStockBelowThresholdEvent(product.StoreID, product.ID, product.Name, stockAfter, product.Threshold)
	}

	s.logger.Debug("stock deducted",
		zap.String("product_id", productID.String()),
		zap.String("quantity", quantity.String()),
		zap.String("movement_type", string(movementType)),
		zap.Int("slices", len(plan)),
	)

	return result, alert, nil
}

// ReceiveStock records a purchase receipt: one new batch plus the
// matching counter increment and journal row, in one transaction.
func (s *DeductionService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (*ReceiveStockResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, shared.ErrInvalidQuantity
	}

	var resp *ReceiveStockResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		batch, err := ledger.NewStockBatch(req.ProductID, req.BatchNumber, req.Quantity, req.UnitCost, req.ExpiryDate, timeNow())
		if err != nil {
			return err
		}
		if err := repos.Batches().Create(ctx, batch); err != nil {
			return err
		}

		if err := repos.Products().IncrementStock(ctx, req.ProductID, req.Quantity); err != nil {
			return err
		}

		batchID := batch.ID
		movement, err := ledger.NewStockMovement(product.StoreID, req.ProductID, &batchID, ledger.MovementReceive, req.Quantity, req.UnitCost, req.Reference)
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		resp = &ReceiveStockResponse{
			BatchID:     batch.ID,
			BatchNumber: batch.BatchNumber,
			Quantity:    batch.Quantity,
			UnitCost:    batch.UnitCost,
			ExpiryDate:  batch.ExpiryDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock received",
		zap.String("product_id", req.ProductID.String()),
		zap.String("batch_id", resp.BatchID.String()),
		zap.String("quantity", req.Quantity.String()),
	)

	return resp, nil
}

func (s *DeductionService) publishAlert(ctx context.Context, alert *catalog.StockBelowThresholdEvent) {
	if alert == nil || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, alert); err != nil {
		s.logger.Warn("failed to publish low stock event",
			zap.String("product_id", alert.AggregateID().String()),
			zap.Error(err),
		)
	}
}
