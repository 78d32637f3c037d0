package service

import (
	"strings"

	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/crypto"

	"gorm.io/gorm"
)

type UserAdminService struct {
	db     *gorm.DB
	hasher crypto.Scrypt
}

func NewUserAdminService(db *gorm.DB, hasher crypto.Scrypt) *UserAdminService {
	return &UserAdminService{db: db, hasher: hasher}
}

type UserDTO struct {
	Id        int    `json:"id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt int64  `json:"created_at"`
}

func toDTO(u *model.User) UserDTO {
	return UserDTO{Id: u.Id, Nickname: u.Nickname, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

// ListUsers returns every account, newest first.
func (s *UserAdminService) ListUsers() ([]UserDTO, error) {
	var users []model.User
	if err := s.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toDTO(&users[i]))
	}
	return out, nil
}

// CreateUser adds an account on behalf of actor, who must be an administrator.
func (s *UserAdminService) CreateUser(actor *SessionContext, nickname, email, password string, isAdmin bool) (UserDTO, error) {
	if err := RequireAdmin(actor); err != nil {
		return UserDTO{}, err
	}
	return s.AddUser(nickname, email, password, isAdmin)
}

// AddUser creates an account without an actor. Used by the CLI.
func (s *UserAdminService) AddUser(nickname, email, password string, isAdmin bool) (UserDTO, error) {
	nickname = strings.TrimSpace(nickname)
	email = common.NormalizeEmail(email)
	if nickname == "" || email == "" || password == "" {
		return UserDTO{}, ErrUserFieldsRequired
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return UserDTO{}, err
	}
	u := &model.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: digest,
		IsAdmin:      isAdmin,
	}
	if err := s.db.Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return UserDTO{}, ErrEmailExists
		}
		return UserDTO{}, err
	}
	return toDTO(u), nil
}
