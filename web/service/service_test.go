package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/amoskalev/notepanel/config"
	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/util/crypto"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testHasher keeps the digest format but makes derivation cheap.
var testHasher = crypto.Scrypt{N: 16, R: 1, P: 1, SaltLen: 16, KeyLen: 32}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := database.Open(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

func createUser(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) *model.User {
	t.Helper()
	digest, err := testHasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{Nickname: "nick", Email: email, PasswordHash: digest, IsAdmin: isAdmin}
	require.NoError(t, db.Create(u).Error)
	return u
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func adminCtx(u *model.User) *SessionContext {
	return &SessionContext{UserID: u.Id, Email: u.Email, IsAdmin: u.IsAdmin}
}
