package middleware

import (
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// RequireSession admits any logged-in user.
func RequireSession() gin.HandlerFunc {
	return gate(service.RequireSession)
}

// RequireAdmin admits administrators only.
func RequireAdmin() gin.HandlerFunc {
	return gate(service.RequireAdmin)
}

func gate(check func(*service.SessionContext) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(GetSessionContext(c)); err != nil {
			c.AbortWithStatusJSON(service.KindOf(err).HTTPStatus(), gin.H{"error": service.CodeOf(err)})
			return
		}
		c.Next()
	}
}
