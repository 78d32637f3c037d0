package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// UserController serves the caller's own profile.
type UserController struct {
	BaseController

	userService *service.UserService
}

func NewUserController(g *gin.RouterGroup, userService *service.UserService) *UserController {
	a := &UserController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.getProfile)
	g.PUT("", a.updateProfile)
}

func (a *UserController) getProfile(c *gin.Context) {
	profile, err := a.userService.Profile(a.session(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (a *UserController) updateProfile(c *gin.Context) {
	upd := bindJSON[service.ProfileUpdate](c)
	if err := a.userService.UpdateProfile(a.session(c), upd); err != nil {
		jsonError(c, err)
		return
	}
	jsonOK(c, http.StatusOK)
}
