package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	"github.com/retail/backoffice/internal/domain/catalog"
	"github.com/retail/backoffice/internal/interfaces/http/dto"
)

// ProductHandler exposes catalog management endpoints.
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductResponse is the API shape of a catalog product.
type ProductResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	SellingPrice       decimal.Decimal `json:"sellingPrice"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	HppPrice           decimal.Decimal `json:"hppPrice"`
	Stock              decimal.Decimal `json:"stock"`
	Threshold          decimal.Decimal `json:"threshold"`
	ConversionTargetID *uuid.UUID      `json:"conversionTargetId,omitempty"`
	ConversionRate     decimal.Decimal `json:"conversionRate"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID,
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
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// RegisterRoutes mounts the product endpoints.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.PUT("/:id/conversion", h.ConfigureConversion)
	}
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
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

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, toProductResponse(product))
}

// Get returns one product.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// List returns a page of the store's products.
func (h *ProductHandler) List(c *gin.Context) {
	store, err := storeID(c)
	if err != nil {
		h.BadRequest(c, "invalid store ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.products.List(c.Request.Context(), store, listReq.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductResponse(p))
	}
	h.SuccessWithMeta(c, items, page.TotalCount, page.Page, page.PageSize)
}

// Update changes display fields, prices and the alert threshold.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// ConfigureConversion links a bulk product to its retail counterpart.
func (h *ProductHandler) ConfigureConversion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var req catalogapp.ConfigureConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.ConfigureConversion(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// Delete soft-deletes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
