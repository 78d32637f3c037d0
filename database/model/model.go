// Package model contains the persisted entities of the panel.
package model

// User is an account. Email is stored lowercased and is unique. The optional
// profile fields hold FieldCipher output, never plaintext; nil means absent.
type User struct {
	Id           int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Nickname     string  `json:"nickname"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"column:password_hash;not null"`
	FullName     *string `json:"-"`
	Phone        *string `json:"-"`
	ExternalURL  *string `json:"-" gorm:"column:password_manager_url"`
	IsAdmin      bool    `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    int64   `json:"created_at" gorm:"autoCreateTime"`
}

// Session is a bearer token issued at login. Valid while now < ExpiresAt (unix seconds).
type Session struct {
	Token     string `gorm:"primaryKey"`
	UserId    int    `gorm:"index;not null"`
	User      *User  `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ExpiresAt int64  `gorm:"index;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Note is a markdown post owned by a user; published notes appear on the blog.
type Note struct {
	Id        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId    int    `json:"-" gorm:"index;not null"`
	User      *User  `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Title     string `json:"title" gorm:"not null"`
	ContentMd string `json:"content_md" gorm:"column:content_md;not null"`
	Published bool   `json:"published" gorm:"not null;default:false"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt int64  `json:"updated_at" gorm:"autoUpdateTime"`
}

// Setting is a key/value row for runtime settings and internal markers.
type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value"`
}

// AuditLog records a state-changing request made by an authenticated user.
type AuditLog struct {
	ID        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID string `json:"request_id" gorm:"index"`
	UserID    int    `json:"user_id" gorm:"index"`
	Email     string `json:"email"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Details   string `json:"details"`
	Timestamp int64  `json:"timestamp" gorm:"index"`
}
