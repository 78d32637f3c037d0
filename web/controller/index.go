package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/web/entity"
	"github.com/amoskalev/notepanel/web/service"
	"github.com/amoskalev/notepanel/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController handles the public routes: health, login and logout.
type IndexController struct {
	BaseController

	authService  *service.AuthService
	cookieSecure bool
}

// NewIndexController registers the public routes on g. loginLimit guards
// the login route.
func NewIndexController(g *gin.RouterGroup, authService *service.AuthService, cookieSecure bool, loginLimit gin.HandlerFunc) *IndexController {
	a := &IndexController{authService: authService, cookieSecure: cookieSecure}
	a.initRouter(g, loginLimit)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	g.GET("/health", a.health)
	g.POST("/register", a.register)
	g.POST("/login", loginLimit, a.login)
	g.POST("/logout", a.logout)
}

func (a *IndexController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *IndexController) register(c *gin.Context) {
	jsonError(c, service.ErrRegistrationDisabled)
}

func (a *IndexController) login(c *gin.Context) {
	form := bindJSON[entity.LoginForm](c)

	token, expiresAt, err := a.authService.Login(form.Email, form.Password)
	if err != nil {
		if service.KindOf(err) == service.KindAuthRequired {
			logger.Warningf("failed login for \"%s\", IP: \"%s\"", common.NormalizeEmail(form.Email), c.ClientIP())
		}
		jsonError(c, err)
		return
	}

	if err := session.SetToken(c, token, expiresAt, a.cookieSecure); err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("%s logged in successfully, IP: %s", common.NormalizeEmail(form.Email), c.ClientIP())
	jsonOK(c, http.StatusOK)
}

// logout revokes the presented token if any and always expires the cookie.
func (a *IndexController) logout(c *gin.Context) {
	if token := session.GetToken(c); token != "" {
		if err := a.authService.Logout(token); err != nil {
			logger.Warning("revoke session failed:", err)
		}
	}
	if err := session.ClearToken(c, a.cookieSecure); err != nil {
		logger.Warning("Unable to clear session cookie:", err)
	}
	jsonOK(c, http.StatusOK)
}
