package handler

import (
	"io"
	"net/http"

	"expensems/internal/middleware"
	"expensems/internal/service"
	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
}

func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/api/receipts")
	{
		receipts.POST("", middleware.RequireAuth(), h.Upload)
		receipts.GET("/:id", middleware.RequireAuth(), h.Download)
	}
}

// Upload attaches a receipt file to an expense
// @Summary      Upload receipt
// @Description  Multipart upload keyed by expenseId; replaces any existing receipt
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        expenseId  query     string  true  "expense id"
// @Param        file       formData  file    true  "receipt file"
// @Success      201        {object}  api.Receipt
// @Failure      400        {object}  api.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Upload(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Query("expenseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "expenseId query parameter is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file form field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	receipt, err := h.receiptService.Upload(c.Request.Context(), middleware.UserID(c), expenseID, fileHeader.Filename, content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// Download streams the receipt blob
func (h *ReceiptHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	receipt, content, err := h.receiptService.Download(c.Request.Context(), middleware.UserID(c), roleStr, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+receipt.FileName+`"`)
	c.Data(http.StatusOK, receipt.FileType, content)
}
