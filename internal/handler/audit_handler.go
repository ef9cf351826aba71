package handler

import (
	"net/http"

	"expensems/internal/middleware"
	"expensems/internal/service"
	"expensems/pkg/api"
	"expensems/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs")
	{
		audit.GET("", middleware.RequireRole(api.RoleAdmin), h.List)
	}
}

// List returns the audit trail, newest first (admin only)
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c, map[string]string{"createdAt": "created_at"}, "createdAt")
	page, err := h.auditService.List(c.Request.Context(), params)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
