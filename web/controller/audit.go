package controller

import (
	"net/http"
	"strconv"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// AuditController exposes the audit trail. Admin only.
type AuditController struct {
	auditService   *service.AuditLogService
	settingService *service.SettingService
}

func NewAuditController(g *gin.RouterGroup, auditService *service.AuditLogService, settingService *service.SettingService) *AuditController {
	a := &AuditController{auditService: auditService, settingService: settingService}
	a.initRouter(g)
	return a
}

func (a *AuditController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.getAuditLogs)
}

// getAuditLogs accepts optional user_id, action, limit and offset query parameters.
func (a *AuditController) getAuditLogs(c *gin.Context) {
	limit, err := a.settingService.GetAuditPageSize()
	if err != nil {
		logger.Warning("get audit page size failed:", err)
		limit = 200
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v < limit {
		limit = v
	}
	offset, _ := strconv.Atoi(c.Query("offset"))
	offset = max(offset, 0)
	userID, _ := strconv.Atoi(c.Query("user_id"))

	logs, total, err := a.auditService.GetAuditLogs(userID, limit, offset, c.Query("action"))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total})
}
