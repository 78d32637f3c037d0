package service

import (
	"strings"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/crypto"

	"gorm.io/gorm"
)

// UserService serves the caller's own profile.
type UserService struct {
	db     *gorm.DB
	cipher *crypto.FieldCipher
}

func NewUserService(db *gorm.DB, cipher *crypto.FieldCipher) *UserService {
	return &UserService{db: db, cipher: cipher}
}

// Profile is the decrypted view of the session user. Absent fields are nil.
type Profile struct {
	Nickname    string  `json:"nickname"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	ExternalURL *string `json:"password_manager_url"`
	IsAdmin     bool    `json:"is_admin"`
}

// ProfileUpdate holds the fields to change. A nil field is left alone, an
// empty one is cleared.
type ProfileUpdate struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	ExternalURL *string `json:"password_manager_url"`
}

func (s *UserService) Profile(ctx *SessionContext) (*Profile, error) {
	if err := RequireSession(ctx); err != nil {
		return nil, err
	}
	return &Profile{
		Nickname:    ctx.Nickname,
		Email:       ctx.Email,
		FullName:    s.open(ctx.UserID, "full_name", ctx.FullName),
		Phone:       s.open(ctx.UserID, "phone", ctx.Phone),
		ExternalURL: s.open(ctx.UserID, "password_manager_url", ctx.ExternalURL),
		IsAdmin:     ctx.IsAdmin,
	}, nil
}

func (s *UserService) open(userID int, field string, ciphertext *string) *string {
	if ciphertext == nil || *ciphertext == "" {
		return nil
	}
	plain, err := s.cipher.Open(*ciphertext)
	if err != nil {
		logger.Warningf("user %d: stored %s is unreadable: %v", userID, field, err)
		return nil
	}
	return &plain
}

func (s *UserService) UpdateProfile(ctx *SessionContext, upd ProfileUpdate) error {
	if err := RequireSession(ctx); err != nil {
		return err
	}

	updates := map[string]any{}
	if upd.FullName != nil {
		updates["full_name"] = s.cipher.Seal(strings.TrimSpace(*upd.FullName))
	}
	if upd.Phone != nil {
		updates["phone"] = s.cipher.Seal(strings.TrimSpace(*upd.Phone))
	}
	if upd.ExternalURL != nil {
		updates["password_manager_url"] = s.cipher.Seal(common.NormalizeURL(*upd.ExternalURL))
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(model.User{}).Where("id = ?", ctx.UserID).Updates(updates).Error
}
