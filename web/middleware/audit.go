package middleware

import (
	"net/http"
	"strings"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing a well-formed inbound one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AuditMiddleware records state-changing requests made with a valid session.
// It must run after SessionAuth.
func AuditMiddleware(auditService *service.AuditLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isStateChanging(c.Request.Method) {
			c.Next()
			return
		}
		// resolve before the handler runs; logout revokes the session
		ctx := GetSessionContext(c)
		c.Next()
		if ctx == nil {
			return
		}

		path := c.Request.URL.Path
		entry := service.AuditEntry{
			RequestID: c.GetString(RequestIDHeader),
			UserID:    ctx.UserID,
			Email:     ctx.Email,
			Action:    c.Request.Method,
			Resource:  resourceOf(path),
			Path:      path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if target := c.Query("path"); target != "" {
			entry.Details = map[string]any{"path": target}
		}
		if err := auditService.LogAction(entry); err != nil {
			logger.Warning("Failed to log audit action:", err)
		}
	}
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// resourceOf returns the first segment after /api (after /api/admin for
// admin routes), e.g. "notes" or "users".
func resourceOf(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "unknown"
	}
	rest = strings.TrimPrefix(rest, "admin/")
	resource, _, _ := strings.Cut(rest, "/")
	return resource
}
