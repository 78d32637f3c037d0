package controller

import (
	"net/http"

	"github.com/amoskalev/notepanel/web/cache"
	"github.com/amoskalev/notepanel/web/entity"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// NoteController manages the caller's notes. Admin only.
type NoteController struct {
	BaseController

	noteService *service.NoteService
	cache       *cache.Store
}

func NewNoteController(g *gin.RouterGroup, noteService *service.NoteService, store *cache.Store) *NoteController {
	a := &NoteController{noteService: noteService, cache: store}
	a.initRouter(g)
	return a
}

func (a *NoteController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.listNotes)
	g.POST("", a.createNote)
	g.PUT("/:id", a.updateNote)
	g.DELETE("/:id", a.deleteNote)
}

func (a *NoteController) listNotes(c *gin.Context) {
	notes, err := a.noteService.List(a.session(c))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (a *NoteController) createNote(c *gin.Context) {
	form := bindJSON[entity.NoteForm](c)
	var title, content string
	if form.Title != nil {
		title = *form.Title
	}
	if form.Content != nil {
		content = *form.Content
	}
	published := form.Published != nil && *form.Published

	note, err := a.noteService.Create(a.session(c), title, content, published)
	if err != nil {
		jsonError(c, err)
		return
	}
	a.cache.InvalidateBlog(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": note.Id})
}

func (a *NoteController) updateNote(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	form := bindJSON[entity.NoteForm](c)
	patch := service.NotePatch{Title: form.Title, Content: form.Content, Published: form.Published}

	if _, err := a.noteService.Update(a.session(c), id, patch); err != nil {
		jsonError(c, err)
		return
	}
	a.cache.InvalidateBlog(c.Request.Context())
	jsonOK(c, http.StatusOK)
}

func (a *NoteController) deleteNote(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		jsonError(c, err)
		return
	}
	if err := a.noteService.Delete(a.session(c), id); err != nil {
		jsonError(c, err)
		return
	}
	a.cache.InvalidateBlog(c.Request.Context())
	jsonOK(c, http.StatusOK)
}
