package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/entity"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// FileController exposes the sandboxed file manager. Admin only.
type FileController struct {
	BaseController

	fileService *service.FileService
}

func NewFileController(g *gin.RouterGroup, fileService *service.FileService) *FileController {
	a := &FileController{fileService: fileService}
	a.initRouter(g)
	return a
}

func (a *FileController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.list)
	g.DELETE("", a.delete)
	g.POST("/upload", a.upload)
	g.POST("/folder", a.createFolder)
	g.GET("/usage", a.usage)
}

func (a *FileController) list(c *gin.Context) {
	listing, err := a.fileService.List(c.Query("path"))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (a *FileController) upload(c *gin.Context) {
	form := bindJSON[entity.UploadForm](c)
	if err := a.fileService.Upload(form.Path, form.Name, form.ContentBase64); err != nil {
		jsonError(c, err)
		return
	}
	jsonOK(c, http.StatusCreated)
}

func (a *FileController) createFolder(c *gin.Context) {
	form := bindJSON[entity.FolderForm](c)
	if err := a.fileService.CreateFolder(form.Path, form.Name); err != nil {
		jsonError(c, err)
		return
	}
	jsonOK(c, http.StatusCreated)
}

func (a *FileController) delete(c *gin.Context) {
	if err := a.fileService.Delete(c.Query("path")); err != nil {
		jsonError(c, err)
		return
	}
	jsonOK(c, http.StatusOK)
}

func (a *FileController) usage(c *gin.Context) {
	usage, err := a.fileService.Usage()
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
