package handler

import (
	"errors"
	"net/http"

	"expensems/internal/service"
	"expensems/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service-layer errors onto the HTTP surface.
func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FieldErrors(c, http.StatusBadRequest, verr.Message, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
