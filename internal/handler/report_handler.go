package handler

import (
	"net/http"
	"time"

	"expensems/internal/middleware"
	"expensems/internal/service"
	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/summary", middleware.RequireAuth(), h.Summary)
		reports.GET("/export", middleware.RequireAuth(), h.Export)
	}
}

func (h *ReportHandler) parseRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "startDate must be in YYYY-MM-DD format")
			return nil, nil, false
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "endDate must be in YYYY-MM-DD format")
			return nil, nil, false
		}
		end = &t
	}
	return start, end, true
}

// Summary returns expense totals grouped by status and category
func (h *ReportHandler) Summary(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	summary, err := h.reportService.Summary(c.Request.Context(), middleware.UserID(c), roleStr, start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export downloads the summary as an xlsx workbook
func (h *ReportHandler) Export(c *gin.Context) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	workbook, err := h.reportService.Export(c.Request.Context(), middleware.UserID(c), roleStr, start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expense-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
