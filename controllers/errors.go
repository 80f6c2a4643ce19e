package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/services"
	"github.com/yeremiapane/bakery-app/storage"
	"github.com/yeremiapane/bakery-app/utils"
)

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *cart.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case services.IsValidation(err), errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, storage.ErrUnsupportedType):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &stockErr):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
