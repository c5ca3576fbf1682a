package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/jobbook/backend/internal/application/report"
	"github.com/jobbook/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles the /reports endpoints. Reports are derived on
// every request from the owner's stored records and expenses.
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Records returns the filtered records table with its summary.
// Query: bucket, search, sort, dir.
func (h *ReportHandler) Records(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}
	var q reportapp.RecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	report, err := h.reportService.Records(c.Request.Context(), ownerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Dashboard returns one summary per bucket
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	report, err := h.reportService.Dashboard(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Series returns chart points for ?bucket=
func (h *ReportHandler) Series(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	report, err := h.reportService.Series(c.Request.Context(), ownerID, c.Query("bucket"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Expenses returns the expense breakdown by category for ?bucket=
func (h *ReportHandler) Expenses(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	report, err := h.reportService.ExpenseBreakdown(c.Request.Context(), ownerID, c.Query("bucket"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
