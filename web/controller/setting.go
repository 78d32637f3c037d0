package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// SettingController reads and updates runtime settings. Admin only.
type SettingController struct {
	settingService *service.SettingService
}

func NewSettingController(g *gin.RouterGroup, settingService *service.SettingService) *SettingController {
	a := &SettingController{settingService: settingService}
	a.initRouter(g)
	return a
}

func (a *SettingController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.getAllSetting)
	g.PUT("", a.updateSetting)
}

func (a *SettingController) getAllSetting(c *gin.Context) {
	allSetting, err := a.settingService.GetAllSetting()
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": allSetting})
}

// updateSetting overlays the body on the current settings, so omitted keys
// keep their values.
func (a *SettingController) updateSetting(c *gin.Context) {
	allSetting, err := a.settingService.GetAllSetting()
	if err != nil {
		jsonError(c, err)
		return
	}
	if err := c.ShouldBindJSON(allSetting); err != nil {
		jsonError(c, service.ErrInvalidSetting)
		return
	}
	if err := a.settingService.UpdateAllSetting(allSetting); err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": allSetting})
}
