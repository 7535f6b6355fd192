package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	alertapp "github.com/retail/backoffice/internal/application/alert"
	ledgerapp "github.com/retail/backoffice/internal/application/ledger"
	"github.com/retail/backoffice/internal/domain/ledger"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// StockHandler exposes the stock ledger: receipts, conversions,
// adjustments and the batch and movement read paths.
type StockHandler struct {
	BaseHandler
	deduction   *ledgerapp.DeductionService
	conversion  *ledgerapp.ConversionService
	adjustment  *ledgerapp.AdjustmentService
	lowStock    *alertapp.LowStockService
	batches     ledger.StockBatchRepository
	movements   ledger.StockMovementRepository
	adjustments ledger.StockAdjustmentRepository
}

// NewStockHandler creates a StockHandler.
func NewStockHandler(
	deduction *ledgerapp.DeductionService,
	conversion *ledgerapp.ConversionService,
	adjustment *ledgerapp.AdjustmentService,
	lowStock *alertapp.LowStockService,
	batches ledger.StockBatchRepository,
	movements ledger.StockMovementRepository,
	adjustments ledger.StockAdjustmentRepository,
) *StockHandler {
	return &StockHandler{
		deduction:   deduction,
		conversion:  conversion,
		adjustment:  adjustment,
		lowStock:    lowStock,
		batches:     batches,
		movements:   movements,
		adjustments: adjustments,
	}
}

// BatchResponse is the API shape of a stock batch.
type BatchResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"productId"`
	BatchNumber        string          `json:"batchNumber"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unitCost"`
	ExpiryDate         *time.Time      `json:"expiryDate,omitempty"`
	ReceivedAt         time.Time       `json:"receivedAt"`
	DerivedFromBatchID *uuid.UUID      `json:"derivedFromBatchId,omitempty"`
}

func toBatchResponse(b *ledger.StockBatch) BatchResponse {
	return BatchResponse{
		ID:                 b.ID,
		ProductID:          b.ProductID,
		BatchNumber:        b.BatchNumber,
		Quantity:           b.Quantity,
		UnitCost:           b.UnitCost,
		ExpiryDate:         b.ExpiryDate,
		ReceivedAt:         b.ReceivedAt,
		DerivedFromBatchID: b.DerivedFromBatchID,
	}
}

// MovementResponse is the API shape of a journal row.
type MovementResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"productId"`
	BatchID    *uuid.UUID      `json:"batchId,omitempty"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	Reference  string          `json:"reference,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func toMovementResponse(m *ledger.StockMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		BatchID:    m.BatchID,
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		Reference:  m.Reference,
		OccurredAt: m.OccurredAt,
	}
}

// AdjustmentListItem is the API shape of a recorded adjustment.
type AdjustmentListItem struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"productId"`
	Delta      decimal.Decimal `json:"delta"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	Reason     string          `json:"reason"`
	AdjustedAt time.Time       `json:"adjustedAt"`
}

// RegisterRoutes mounts the stock endpoints.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/receive", h.Receive)
		stock.POST("/convert", h.Convert)
		stock.POST("/adjust", h.Adjust)
		stock.GET("/low", h.LowStock)
		stock.GET("/adjustments", h.ListAdjustments)
		stock.GET("/products/:id/batches", h.ListBatches)
		stock.GET("/products/:id/movements", h.ListMovements)
	}
}

// Receive records a purchase receipt into a new batch.
func (h *StockHandler) Receive(c *gin.Context) {
	var req ledgerapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.deduction.ReceiveStock(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Convert breaks bulk stock down into the configured retail product.
func (h *StockHandler) Convert(c *gin.Context) {
	var req ledgerapp.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.conversion.Convert(c.Request.Context(), req.SourceProductID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, result)
}

// Adjust corrects stock by a signed delta with a mandatory reason.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req ledgerapp.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.adjustment.Adjust(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// LowStock returns the store's low-stock snapshot.
func (h *StockHandler) LowStock(c *gin.Context) {
	store, err := storeID(c)
	if err != nil {
		h.BadRequest(c, "invalid store ID")
		return
	}

	items, err := h.lowStock.Snapshot(c.Request.Context(), store)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, items)
}

// ListAdjustments returns the store's adjustments in a period.
func (h *StockHandler) ListAdjustments(c *gin.Context) {
	store, err := storeID(c)
	if err != nil {
		h.BadRequest(c, "invalid store ID")
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustments, err := h.adjustments.ListByStore(c.Request.Context(), store, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]AdjustmentListItem, 0, len(adjustments))
	for _, a := range adjustments {
		items = append(items, AdjustmentListItem{
			ID:         a.ID,
			ProductID:  a.ProductID,
			Delta:      a.Delta,
			UnitCost:   a.UnitCost,
			TotalCost:  a.TotalCost,
			Reason:     a.Reason,
			AdjustedAt: a.AdjustedAt,
		})
	}
	h.Success(c, items)
}

// ListBatches returns a page of the product's batches.
func (h *StockHandler) ListBatches(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.batches.ListByProduct(c.Request.Context(), id, listReq.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]BatchResponse, 0, len(page.Items))
	for _, b := range page.Items {
		items = append(items, toBatchResponse(b))
	}
	h.SuccessWithMeta(c, items, page.TotalCount, page.Page, page.PageSize)
}

// ListMovements returns a page of the product's movement journal.
func (h *StockHandler) ListMovements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.movements.ListByProduct(c.Request.Context(), id, listReq.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, toMovementResponse(m))
	}
	h.SuccessWithMeta(c, items, page.TotalCount, page.Page, page.PageSize)
}
