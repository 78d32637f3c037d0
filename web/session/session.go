// Package session carries the opaque login token in the signed "session"
// cookie. The token is the only thing stored client side; everything else is
// looked up per request.
package session

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CookieName = "session"
	tokenKey   = "TOKEN"
)

// Options returns the cookie attributes for a session cookie living maxAge seconds.
func Options(maxAge int, secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetToken stores token in the cookie until expiresAt (unix seconds).
func SetToken(c *gin.Context, token string, expiresAt int64, secure bool) error {
	s := sessions.Default(c)
	s.Set(tokenKey, token)
	maxAge := int(time.Until(time.Unix(expiresAt, 0)).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	s.Options(Options(maxAge, secure))
	return s.Save()
}

// GetToken returns the presented token or "".
func GetToken(c *gin.Context) string {
	s := sessions.Default(c)
	if token, ok := s.Get(tokenKey).(string); ok {
		return token
	}
	return ""
}

// ClearToken expires the cookie.
func ClearToken(c *gin.Context, secure bool) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(Options(-1, secure))
	return s.Save()
}
