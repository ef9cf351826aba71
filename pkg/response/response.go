package response

import (
	"github.com/gin-gonic/gin"

	"expensems/pkg/api"
)

// Error writes the standard error envelope.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, api.ErrorResponse{Message: message})
}

// FieldErrors writes an error envelope carrying field-level messages.
func FieldErrors(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, api.ErrorResponse{Message: message, Errors: fields})
}

// AbortError aborts the request with the standard error envelope.
// For use from middleware.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Message: message})
}
