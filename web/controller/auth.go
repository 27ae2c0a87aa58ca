package controller

import (
	"net/http"

	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/web/entity"
	"github.com/akraev/simple-api/web/service"

	"github.com/gin-gonic/gin"
)

// AuthController serves the password grant and token revocation.
type AuthController struct {
	BaseController

	authService service.AuthService
}

func NewAuthController(g *gin.RouterGroup) *AuthController {
	a := &AuthController{}
	g.POST("/auth", a.authenticate)
	g.DELETE("/auth", a.revoke)
	return a
}

// authenticate implements the OAuth2 password grant: form-encoded
// username/password in, bearer token out. Unknown user and wrong password
// produce the same response.
func (a *AuthController) authenticate(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		badRequest(c, "username and password are required")
		return
	}

	token, user, err := a.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		jsonError(c, err)
		return
	}

	logger.Debug("issued token for user id:", user.Id)
	c.JSON(http.StatusOK, entity.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// revoke drops the presented bearer token.
func (a *AuthController) revoke(c *gin.Context) {
	token := a.bearerToken(c)
	if token == "" {
		jsonError(c, service.ErrInvalidToken)
		return
	}

	if err := a.authService.RevokeToken(c.Request.Context(), token); err != nil {
		jsonError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
