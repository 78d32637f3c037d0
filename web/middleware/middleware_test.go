package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoskalev/notepanel/web/cache"
	"github.com/amoskalev/notepanel/web/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:4242"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	r := gin.New()
	r.POST("/api/login", RateLimitMiddleware(store, LoginRateLimitConfig(3)), okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/login").Code)
	}
	w := serve(r, http.MethodPost, "/api/login")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too_many_requests"}`, w.Body.String())
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	store := cache.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	r := gin.New()
	r.POST("/api/login", RateLimitMiddleware(store, LoginRateLimitConfig(1)), okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/login").Code)
	}
}

func TestGates(t *testing.T) {
	withCtx := func(ctx *service.SessionContext) gin.HandlerFunc {
		return func(c *gin.Context) {
			if ctx != nil {
				c.Set(sessionContextKey, ctx)
			}
			c.Next()
		}
	}

	tests := []struct {
		name        string
		ctx         *service.SessionContext
		sessionCode int
		adminCode   int
		adminBody   string
	}{
		{"anonymous", nil, http.StatusUnauthorized, http.StatusUnauthorized, `{"error":"auth_required"}`},
		{"member", &service.SessionContext{UserID: 2}, http.StatusOK, http.StatusForbidden, `{"error":"admin_only"}`},
		{"admin", &service.SessionContext{UserID: 1, IsAdmin: true}, http.StatusOK, http.StatusOK, `{"ok":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withCtx(tt.ctx))
			r.GET("/me", RequireSession(), okHandler)
			r.GET("/admin", RequireAdmin(), okHandler)

			assert.Equal(t, tt.sessionCode, serve(r, http.MethodGet, "/me").Code)
			w := serve(r, http.MethodGet, "/admin")
			assert.Equal(t, tt.adminCode, w.Code)
			assert.JSONEq(t, tt.adminBody, w.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:4173"))
	r.GET("/api/health", okHandler)

	w := serve(r, http.MethodOptions, "/api/health")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:4173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(r, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:4173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", okHandler)

	w := serve(r, http.MethodGet, "/")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestResourceOf(t *testing.T) {
	cases := map[string]string{
		"/api/notes/3":      "notes",
		"/api/admin/users":  "users",
		"/api/files/upload": "files",
		"/api/logout":       "logout",
		"/elsewhere":        "unknown",
	}
	for path, want := range cases {
		assert.Equal(t, want, resourceOf(path), path)
	}
}
