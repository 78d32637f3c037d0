package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// ServerController reports host status. Admin only.
type ServerController struct {
	serverService *service.ServerService
}

func NewServerController(g *gin.RouterGroup, serverService *service.ServerService) *ServerController {
	a := &ServerController{serverService: serverService}
	g.GET("", a.status)
	return a
}

func (a *ServerController) status(c *gin.Context) {
	c.JSON(http.StatusOK, a.serverService.GetStatus())
}
