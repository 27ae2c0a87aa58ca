// Package controller provides the HTTP request handlers of the API.
package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// bearerToken extracts the bearer token from the Authorization header.
// Returns an empty string when the header is absent or not a bearer scheme.
func (a *BaseController) bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
