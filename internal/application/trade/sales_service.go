package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/retail/backoffice/internal/application/ledger"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/domain/trade"
)

// SaleLineRequest is one position of a sale to create.
type SaleLineRequest struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest creates a sale with all its lines.
type CreateSaleRequest struct {
	StoreID uuid.UUID         `json:"storeId"`
	Lines   []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleResponse reports a persisted sale.
type SaleResponse struct {
	SaleID      uuid.UUID          `json:"saleId"`
	Number      string             `json:"number"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	TotalCost   decimal.Decimal    `json:"totalCost"`
	SoldAt      time.Time          `json:"soldAt"`
	Lines       []SaleLineResponse `json:"lines"`
}

// SaleLineResponse reports one persisted sale line.
type SaleLineResponse struct {
	ProductID  uuid.UUID       `json:"productId"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineAmount decimal.Decimal `json:"lineAmount"`
	CostPrice  decimal.Decimal `json:"costPrice"`
}

// SalesService creates sales. Every line's stock deduction and its
// recorded cost basis commit atomically with the sale itself; a single
// short line rejects the whole sale.
type SalesService struct {
	scope     appledger.TransactionScope
	deduction *appledger.DeductionService
	sales     trade.SaleRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewSalesService creates a SalesService. sales is the non-transactional
// repository used for reads.
func NewSalesService(scope appledger.TransactionScope, deduction *appledger.DeductionService, sales trade.SaleRepository, publisher shared.EventPublisher, logger *zap.Logger) *SalesService {
	return &SalesService{
		scope:     scope,
		deduction: deduction,
		sales:     sales,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateSale deducts stock for every line and persists the sale.
func (s *SalesService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale requires at least one line")
	}
	for _, line := range req.Lines {
		if !line.Quantity.IsPositive() {
			return nil, shared.ErrInvalidQuantity
		}
	}

	var resp *SaleResponse
	var alerts []*catalog.StockBelowThresholdEvent

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		sale, err := trade.NewSale(req.StoreID, trade.GenerateSaleNumber(time.Now()))
		if err != nil {
			return err
		}

		for _, line := range req.Lines {
			product, err := repos.Products().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}

			deduction, alert, err := s.deduction.DeductWithin(ctx, repos, line.ProductID, line.Quantity, ledger.MovementSale, sale.Number)
			if err != nil {
				return err
			}
			if alert != nil {
				alerts = append(alerts, alert)
			}

			if _, err := sale.AddLine(product.ID, product.Name, line.Quantity, line.UnitPrice, deduction.TotalCost); err != nil {
				return err
			}
		}

		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}

		resp = toSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAlerts(ctx, alerts)

	s.logger.Info("sale created",
		zap.String("sale_id", resp.SaleID.String()),
		zap.String("number", resp.Number),
		zap.Int("lines", len(resp.Lines)),
		zap.String("total_amount", resp.TotalAmount.String()),
	)

	return resp, nil
}

// Get returns a sale by ID.
func (s *SalesService) Get(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListByPeriod returns the store's sales in [from, to].
func (s *SalesService) ListByPeriod(ctx context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*SaleResponse], error) {
	filter.Normalize()
	page, err := s.sales.ListByPeriod(ctx, storeID, from, to, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*SaleResponse, 0, len(page.Items))
	for _, sale := range page.Items {
		items = append(items, toSaleResponse(sale))
	}
	return &shared.Paginated[*SaleResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

func (s *SalesService) publishAlerts(ctx context.Context, alerts []*catalog.StockBelowThresholdEvent) {
	if s.publisher == nil || len(alerts) == 0 {
		return
	}
	events := make([]shared.DomainEvent, 0, len(alerts))
	for _, a := range alerts {
		events = append(events, a)
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish low stock events", zap.Error(err))
	}
}

func toSaleResponse(sale *trade.Sale) *SaleResponse {
	lines := make([]SaleLineResponse, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		lines = append(lines, SaleLineResponse{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			LineAmount: l.LineAmount,
			CostPrice:  l.CostPrice,
		})
	}
	return &SaleResponse{
		SaleID:      sale.ID,
		Number:      sale.Number,
		TotalAmount: sale.TotalAmount,
		TotalCost:   sale.TotalCost,
		SoldAt:      sale.SoldAt,
		Lines:       lines,
	}
}
