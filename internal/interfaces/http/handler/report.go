package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/retail/backoffice/internal/application/report"
)

// ReportHandler exposes the profit report.
type ReportHandler struct {
	BaseHandler
	profit *reportapp.ProfitService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(profit *reportapp.ProfitService) *ReportHandler {
	return &ReportHandler{profit: profit}
}

// RegisterRoutes mounts the report endpoints.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/profit", h.ProfitSummary)
	}
}

// ProfitSummary returns revenue, COGS, waste and profit for a period.
func (h *ReportHandler) ProfitSummary(c *gin.Context) {
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

	summary, err := h.profit.Summary(c.Request.Context(), store, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, summary)
}
