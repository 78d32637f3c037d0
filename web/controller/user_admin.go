package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/entity"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// UserAdminController lists and creates accounts. Admin only.
type UserAdminController struct {
	BaseController

	userAdminService *service.UserAdminService
}

func NewUserAdminController(g *gin.RouterGroup, userAdminService *service.UserAdminService) *UserAdminController {
	a := &UserAdminController{userAdminService: userAdminService}
	a.initRouter(g)
	return a
}

func (a *UserAdminController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.listUsers)
	g.POST("", a.createUser)
}

func (a *UserAdminController) listUsers(c *gin.Context) {
	users, err := a.userAdminService.ListUsers()
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (a *UserAdminController) createUser(c *gin.Context) {
	form := bindJSON[entity.UserForm](c)
	user, err := a.userAdminService.CreateUser(a.session(c), form.Nickname, form.Email, form.Password, form.IsAdmin)
	if err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("user %s created by %s", user.Email, a.session(c).Email)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": user})
}
