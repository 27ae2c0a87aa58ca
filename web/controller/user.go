package controller

import (
	"net/http"
	"strconv"

	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/web/entity"
	"github.com/akraev/simple-api/web/service"

	"github.com/gin-gonic/gin"
)

// UserController serves the account lifecycle: register, view, modify,
// remove, list. Mutating endpoints require the bearer token to resolve to the
// target user.
type UserController struct {
	BaseController

	userService service.UserService
	authService service.AuthService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	u := &UserController{}
	g.POST("/", u.create)
	g.GET("/:id", u.read)
	g.PATCH("/:id", u.update)
	g.DELETE("/:id", u.delete)
	g.GET("/", u.list)
	return u
}

func (u *UserController) create(c *gin.Context) {
	var info entity.UserCreateInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := u.userService.Create(c.Request.Context(), info.Name, info.Email, info.Password)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (u *UserController) read(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	user, err := u.userService.View(c.Request.Context(), id)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (u *UserController) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	var info entity.UserUpdateInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	if err := u.authService.Authorize(ctx, u.bearerToken(c), id); err != nil {
		jsonError(c, err)
		return
	}

	user, err := u.userService.Update(ctx, id, service.UserPatch{
		Name:     info.Name,
		Email:    info.Email,
		Password: info.Password,
	})
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (u *UserController) delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	ctx := c.Request.Context()
	if err := u.authService.Authorize(ctx, u.bearerToken(c), id); err != nil {
		jsonError(c, err)
		return
	}

	if err := u.userService.SoftDelete(ctx, id); err != nil {
		jsonError(c, err)
		return
	}
	logger.Info("user", id, "soft deleted")
	c.Status(http.StatusNoContent)
}

func (u *UserController) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultListLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := u.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		jsonError(c, err)
		return
	}

	result := make([]entity.UserInList, 0, len(users))
	for _, user := range users {
		result = append(result, entity.UserInList{Id: user.Id, Name: user.Name})
	}
	c.JSON(http.StatusOK, result)
}
