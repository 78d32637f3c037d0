package service

import (
	"fmt"
	"time"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/util/random"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionContext is the resolved identity of a request. It is built once per
// resolution and never shared across requests. The profile fields are still
// FieldCipher output.
type SessionContext struct {
	Token       string
	UserID      int
	Email       string
	Nickname    string
	FullName    *string
	Phone       *string
	ExternalURL *string
	IsAdmin     bool
	ExpiresAt   int64
}

// SessionService issues, resolves and revokes bearer tokens.
type SessionService struct {
	db       *gorm.DB
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{
		db:  db,
		ttl: ttl,
		now: time.Now,
		newToken: func() (string, error) {
			return random.Token(random.TokenBytes)
		},
	}
}

// Issue stores a fresh token for userID expiring ttl from now. A row with the
// same token is overwritten.
func (s *SessionService) Issue(userID int) (string, int64, error) {
	token, err := s.newToken()
	if err != nil {
		return "", 0, err
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserId:    userID,
		ExpiresAt: now.Add(s.ttl).Unix(),
		CreatedAt: now.Unix(),
	}
	err = s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(session).Error
	if err != nil {
		return "", 0, fmt.Errorf("store session: %w", err)
	}
	return token, session.ExpiresAt, nil
}

type sessionRow struct {
	Token       string  `gorm:"column:token"`
	ExpiresAt   int64   `gorm:"column:expires_at"`
	UserID      int     `gorm:"column:user_id"`
	Email       string  `gorm:"column:email"`
	Nickname    string  `gorm:"column:nickname"`
	FullName    *string `gorm:"column:full_name"`
	Phone       *string `gorm:"column:phone"`
	ExternalURL *string `gorm:"column:password_manager_url"`
	IsAdmin     bool    `gorm:"column:is_admin"`
}

// Resolve returns the session for token joined with the owner's current
// record, or nil when the token is unknown or expired.
func (s *SessionService) Resolve(token string) (*SessionContext, error) {
	if token == "" {
		return nil, nil
	}
	var rows []sessionRow
	err := s.db.Model(&model.Session{}).
		Select("sessions.token, sessions.expires_at, users.id AS user_id, users.email, users.nickname, "+
			"users.full_name, users.phone, users.password_manager_url, users.is_admin").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.token = ? AND sessions.expires_at > ?", token, s.now().Unix()).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &SessionContext{
		Token:       row.Token,
		UserID:      row.UserID,
		Email:       row.Email,
		Nickname:    row.Nickname,
		FullName:    row.FullName,
		Phone:       row.Phone,
		ExternalURL: row.ExternalURL,
		IsAdmin:     row.IsAdmin,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}

// Revoke deletes token. Unknown tokens are not an error.
func (s *SessionService) Revoke(token string) error {
	if token == "" {
		return nil
	}
	return s.db.Where("token = ?", token).Delete(&model.Session{}).Error
}

// RevokeExpired removes sessions that can no longer resolve.
func (s *SessionService) RevokeExpired() (int64, error) {
	res := s.db.Where("expires_at <= ?", s.now().Unix()).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
