// Package web assembles the HTTP server of the notes panel: router,
// middleware, services and the background jobs.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/amoskalev/notepanel/config"
	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/crypto"
	"github.com/amoskalev/notepanel/util/sandbox"
	"github.com/amoskalev/notepanel/web/cache"
	"github.com/amoskalev/notepanel/web/controller"
	"github.com/amoskalev/notepanel/web/job"
	"github.com/amoskalev/notepanel/web/middleware"
	"github.com/amoskalev/notepanel/web/service"
	"github.com/amoskalev/notepanel/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Server owns the listener, the services and the cron scheduler.
type Server struct {
	cfg *config.Config
	db  *gorm.DB

	httpServer *http.Server
	listener   net.Listener

	api      *controller.APIController
	services controller.Services
	sessions *service.SessionService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server over the process-wide database handle.
func NewServer(cfg *config.Config) *Server {
	return newServer(cfg, database.GetDB())
}

func newServer(cfg *config.Config, db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, db: db, ctx: ctx, cancel: cancel}
}

func (s *Server) initServices() error {
	box := sandbox.New(s.cfg.FilesRoot)
	if err := box.EnsureRoot(); err != nil {
		return err
	}

	store, err := cache.Open(s.ctx, s.cfg.RedisAddr)
	if err != nil {
		return err
	}

	hasher := crypto.DefaultScrypt()
	s.sessions = service.NewSessionService(s.db, s.cfg.SessionTTL)
	s.services = controller.Services{
		Auth:      service.NewAuthService(s.db, s.sessions, hasher),
		User:      service.NewUserService(s.db, crypto.NewFieldCipher(s.cfg.Secret)),
		UserAdmin: service.NewUserAdminService(s.db, hasher),
		Note:      service.NewNoteService(s.db),
		File:      service.NewFileService(box),
		Audit:     service.NewAuditLogService(s.db),
		Setting:   service.NewSettingService(s.db),
		Server:    service.NewServerService(s.db, s.cfg.FilesRoot),
		Cache:     store,
	}
	return nil
}

// initRouter registers middleware and controllers and returns the engine.
// initServices must have run.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// the login throttle keys on ClientIP
	if err := engine.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		return nil, err
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(s.cfg.FrontendOrigin))

	// uploads arrive as base64 JSON and are already large
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/files/upload"}),
	))

	store := cookie.NewStore([]byte(s.cfg.Secret))
	store.Options(session.Options(int(s.cfg.SessionTTL.Seconds()), s.cfg.CookieSecure))
	engine.Use(sessions.Sessions(session.CookieName, store))

	s.api = controller.NewAPIController(&engine.RouterGroup, s.services, controller.APIOptions{
		CookieSecure:   s.cfg.CookieSecure,
		LoginPerMinute: s.cfg.LoginPerMinute,
	})

	engine.NoRoute(controller.NotFound)

	return engine, nil
}

// startTask schedules the maintenance jobs. A spec that fails to parse is
// logged and the job stays unscheduled.
func (s *Server) startTask() {
	sweepSpec, err := s.services.Setting.GetSessionSweepSpec()
	if err != nil {
		logger.Warning("get session sweep spec failed:", err)
	} else if _, err := s.cron.AddJob(sweepSpec, job.NewSessionCleanupJob(s.sessions)); err != nil {
		logger.Warningf("schedule session sweep %q failed: %v", sweepSpec, err)
	}

	auditSpec, err := s.services.Setting.GetAuditCleanupSpec()
	if err != nil {
		logger.Warning("get audit cleanup spec failed:", err)
	} else if _, err := s.cron.AddJob(auditSpec, job.NewAuditCleanupJob(s.services.Audit, s.services.Setting)); err != nil {
		logger.Warningf("schedule audit cleanup %q failed: %v", auditSpec, err)
	}
}

// Start builds the services, binds the listener and serves in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if s.db == nil {
		return errors.New("database is not initialized")
	}
	if err = s.initServices(); err != nil {
		return err
	}

	s.cron = cron.New(cron.WithLocation(time.Local))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.cfg.Listen, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve failed:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop shuts down the HTTP server, the scheduler and the cache.
func (s *Server) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	var errs []error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		errs = append(errs, s.httpServer.Shutdown(shutdownCtx))
		cancel()
	} else if s.listener != nil {
		errs = append(errs, s.listener.Close())
	}
	if s.services.Cache != nil {
		errs = append(errs, s.services.Cache.Close())
	}
	s.cancel()
	return common.Combine(errs...)
}
