package service

import (
	"sync"

	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/crypto"

	"gorm.io/gorm"
)

// AuthService verifies credentials and gates operations on the resolved session.
type AuthService struct {
	db       *gorm.DB
	sessions *SessionService
	hasher   crypto.Scrypt

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(db *gorm.DB, sessions *SessionService, hasher crypto.Scrypt) *AuthService {
	return &AuthService{db: db, sessions: sessions, hasher: hasher}
}

// Login checks email and password and issues a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, int64, error) {
	email = common.NormalizeEmail(email)

	user := &model.User{}
	err := s.db.Model(model.User{}).Where("email = ?", email).First(user).Error
	if database.IsNotFound(err) {
		// burn the same work as a real verify
		s.hasher.Verify(password, s.dummy())
		return "", 0, ErrInvalidCredentials
	} else if err != nil {
		return "", 0, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", 0, ErrInvalidCredentials
	}
	return s.sessions.Issue(user.Id)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("notepanel")
		if err != nil {
			logger.Warning("prepare dummy digest failed:", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

// Logout revokes token. Calling it twice is fine.
func (s *AuthService) Logout(token string) error {
	return s.sessions.Revoke(token)
}

func (s *AuthService) Authenticate(token string) (*SessionContext, error) {
	return s.sessions.Resolve(token)
}

// RequireSession admits any resolved session.
func RequireSession(ctx *SessionContext) error {
	if ctx == nil {
		return ErrAuthRequired
	}
	return nil
}

// RequireAdmin admits only administrators. Anonymous callers get
// ErrAuthRequired, everyone else ErrAdminOnly.
func RequireAdmin(ctx *SessionContext) error {
	if err := RequireSession(ctx); err != nil {
		return err
	}
	if !ctx.IsAdmin {
		return ErrAdminOnly
	}
	return nil
}

func AuthorizeAdmin(ctx *SessionContext) bool {
	return RequireAdmin(ctx) == nil
}
