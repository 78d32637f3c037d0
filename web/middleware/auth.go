package middleware

import (
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/service"
	"github.com/amoskalev/notepanel/web/session"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "SESSION_CONTEXT"

// SessionAuth resolves the session cookie on every request and stores the
// result for the gates below. An unknown, expired or missing token leaves the
// request anonymous; a store failure aborts it with 500.
func SessionAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.GetToken(c)
		if token != "" {
			ctx, err := auth.Authenticate(token)
			if err != nil {
				logger.Error("resolve session failed:", err)
				c.AbortWithStatusJSON(service.KindOf(err).HTTPStatus(), gin.H{"error": service.CodeOf(err)})
				return
			}
			if ctx != nil {
				c.Set(sessionContextKey, ctx)
			}
		}
		c.Next()
	}
}

// GetSessionContext returns the resolved session or nil.
func GetSessionContext(c *gin.Context) *service.SessionContext {
	if v, ok := c.Get(sessionContextKey); ok {
		if ctx, ok := v.(*service.SessionContext); ok {
			return ctx
		}
	}
	return nil
}
