package handler

import (
	"context"
	"net/http"

	"expensems/internal/middleware"
	"expensems/internal/service"
	"expensems/pkg/api"
	"expensems/pkg/pagination"
	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// expenseSortFields whitelists sortable wire field names.
var expenseSortFields = map[string]string{
	"expenseDate": "expense_date",
	"amount":      "amount",
	"status":      "status",
	"createdAt":   "created_at",
}

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses")
	{
		expenses.GET("", middleware.RequireAuth(), h.List)
		expenses.POST("", middleware.RequireAuth(), h.Create)
		expenses.GET("/pending", middleware.RequireRole(api.RoleManager, api.RoleAdmin), h.Pending)
		expenses.GET("/:id", middleware.RequireAuth(), h.GetByID)
		expenses.PUT("/:id", middleware.RequireAuth(), h.Update)
		expenses.DELETE("/:id", middleware.RequireAuth(), h.Delete)
		expenses.POST("/:id/submit", middleware.RequireAuth(), h.Submit)
		expenses.POST("/:id/approve", middleware.RequireRole(api.RoleManager, api.RoleAdmin), h.Approve)
		expenses.POST("/:id/reject", middleware.RequireRole(api.RoleManager, api.RoleAdmin), h.Reject)
	}
}

// List returns the caller's expenses, filtered, sorted and paged
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page        query  int     false  "0-based page index"
// @Param        size        query  int     false  "page size"
// @Param        sort        query  string  false  "field,dir (e.g. expenseDate,desc)"
// @Param        status      query  string  false  "status filter"
// @Param        categoryId  query  string  false  "category filter"
// @Param        startDate   query  string  false  "YYYY-MM-DD"
// @Param        endDate     query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  api.Page[api.Expense]
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	params := pagination.Parse(c, expenseSortFields, "expenseDate")
	filter := service.ExpenseListFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("categoryId"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	}

	page, err := h.expenseService.List(c.Request.Context(), middleware.UserID(c), filter, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create handles expense creation; new expenses always start in DRAFT
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req api.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	expense, err := h.expenseService.GetByID(c.Request.Context(), middleware.UserID(c), roleStr, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update replaces a DRAFT expense's editable fields
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit moves a DRAFT expense into the approval queue
func (h *ExpenseHandler) Submit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	expense, err := h.expenseService.Submit(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Pending lists all SUBMITTED expenses awaiting review (managers only)
func (h *ExpenseHandler) Pending(c *gin.Context) {
	expenses, err := h.expenseService.Pending(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) Approve(c *gin.Context) {
	h.reviewAction(c, h.expenseService.Approve)
}

func (h *ExpenseHandler) Reject(c *gin.Context) {
	h.reviewAction(c, h.expenseService.Reject)
}

func (h *ExpenseHandler) reviewAction(c *gin.Context, action func(ctx context.Context, reviewerID string, id uuid.UUID, notes string) (*api.Expense, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.ReviewRequest
	_ = c.ShouldBindJSON(&req) // notes are optional

	expense, err := action(c.Request.Context(), middleware.UserID(c), id, req.ReviewNotes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// parseID reads the :id path param as a uuid, writing a 400 on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
