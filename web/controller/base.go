// Package controller provides the HTTP handlers of the panel API. Handlers
// decode requests, call a service and map its result to JSON; authorization
// is enforced by the middleware gates on each route group.
package controller

import (
	"github.com/amoskalev/notepanel/web/middleware"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// BaseController provides access to the resolved session.
type BaseController struct{}

// session returns the caller's session. On gated routes it is never nil.
func (a *BaseController) session(c *gin.Context) *service.SessionContext {
	return middleware.GetSessionContext(c)
}
