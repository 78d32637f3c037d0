package controller

import (
	"github.com/amoskalev/notepanel/web/cache"
	"github.com/amoskalev/notepanel/web/middleware"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth      *service.AuthService
	User      *service.UserService
	UserAdmin *service.UserAdminService
	Note      *service.NoteService
	File      *service.FileService
	Audit     *service.AuditLogService
	Setting   *service.SettingService
	Server    *service.ServerService
	Cache     *cache.Store
}

// APIOptions are the request-independent knobs of the API.
type APIOptions struct {
	CookieSecure   bool
	LoginPerMinute int
}

// APIController mounts every /api route with its gate. Each route group
// passes exactly one of RequireSession or RequireAdmin, except health,
// register, login, logout and the public blog.
type APIController struct {
	indexController     *IndexController
	blogController      *BlogController
	userController      *UserController
	userAdminController *UserAdminController
	noteController      *NoteController
	fileController      *FileController
	auditController     *AuditController
	settingController   *SettingController
	serverController    *ServerController
}

func NewAPIController(g *gin.RouterGroup, s Services, opts APIOptions) *APIController {
	a := &APIController{}
	a.initRouter(g, s, opts)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup, s Services, opts APIOptions) {
	api := g.Group("/api")
	api.Use(middleware.SessionAuth(s.Auth))
	api.Use(middleware.AuditMiddleware(s.Audit))

	loginLimit := middleware.RateLimitMiddleware(s.Cache, middleware.LoginRateLimitConfig(opts.LoginPerMinute))
	a.indexController = NewIndexController(api, s.Auth, opts.CookieSecure, loginLimit)
	a.blogController = NewBlogController(api.Group("/blog"), s.Note, s.Cache)

	me := api.Group("/me", middleware.RequireSession())
	a.userController = NewUserController(me, s.User)

	notes := api.Group("/notes", middleware.RequireAdmin())
	a.noteController = NewNoteController(notes, s.Note, s.Cache)

	files := api.Group("/files", middleware.RequireAdmin())
	a.fileController = NewFileController(files, s.File)

	admin := api.Group("/admin", middleware.RequireAdmin())
	a.userAdminController = NewUserAdminController(admin.Group("/users"), s.UserAdmin)
	a.auditController = NewAuditController(admin.Group("/audit"), s.Audit, s.Setting)
	a.settingController = NewSettingController(admin.Group("/settings"), s.Setting)
	a.serverController = NewServerController(admin.Group("/status"), s.Server)
}
