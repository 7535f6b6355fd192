package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/retail/backoffice/internal/application/trade"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// SalesHandler exposes the sales endpoints.
type SalesHandler struct {
	BaseHandler
	sales *tradeapp.SalesService
}

// NewSalesHandler creates a SalesHandler.
func NewSalesHandler(sales *tradeapp.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// RegisterRoutes mounts the sales endpoints.
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.Get)
	}
}

// Create records a sale, deducting stock for every line.
func (h *SalesHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.StoreID == uuid.Nil {
		store, err := storeID(c)
		if err != nil {
			h.BadRequest(c, "invalid store ID")
			return
		}
		req.StoreID = store
	}

	resp, err := h.sales.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one sale with its lines.
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid sale ID")
		return
	}

	sale, err := h.sales.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, sale)
}

// List returns a page of the store's sales in a period.
func (h *SalesHandler) List(c *gin.Context) {
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

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.sales.ListByPeriod(c.Request.Context(), store, from, to, listReq.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.TotalCount, page.Page, page.PageSize)
}
