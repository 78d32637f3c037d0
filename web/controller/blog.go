package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/cache"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// BlogController serves the public list of published notes.
type BlogController struct {
	noteService *service.NoteService
	cache       *cache.Store
}

func NewBlogController(g *gin.RouterGroup, noteService *service.NoteService, store *cache.Store) *BlogController {
	a := &BlogController{noteService: noteService, cache: store}
	g.GET("", a.listPublished)
	return a
}

func (a *BlogController) listPublished(c *gin.Context) {
	posts, err := cache.GetOrSet(c.Request.Context(), a.cache, cache.KeyBlogPublished, cache.TTLBlog, a.noteService.Published)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": posts})
}
