package controller

import (
	"errors"
	"net/http"

	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/web/entity"
	"github.com/akraev/simple-api/web/service"

	"github.com/gin-gonic/gin"
)

// jsonError translates a service error into an HTTP status and a body that
// leaks no internal detail. Unrecognized errors become a plain 500.
func jsonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		c.JSON(http.StatusBadRequest, entity.ErrorMsg{Detail: "This name or email already exists"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorMsg{Detail: "User not found"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, entity.ErrorMsg{Detail: "Invalid token"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, entity.ErrorMsg{Detail: "Forbidden"})
	default:
		logger.Error("request failed (", c.GetString("request_id"), "): ", err)
		c.JSON(http.StatusInternalServerError, entity.ErrorMsg{Detail: "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, entity.ErrorMsg{Detail: msg})
}
