package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"

	"gorm.io/gorm"
)

// AdminSeededKey is the settings row written in the same transaction as the seeded admin.
const AdminSeededKey = "admin_seeded"

// AdminSeed describes the administrator created on first boot.
type AdminSeed struct {
	Email    string
	Nickname string
	Password string
}

// SeedAdmin wipes users, sessions and notes and inserts a single
// administrator, exactly once over the lifetime of the deployment.
//
// Two markers guard it: a settings row committed together with the admin,
// and a sentinel file written after commit. Either one present means
// "already seeded"; the missing one is restored. The row makes the seed
// atomic, the file survives the store being cleared.
func SeedAdmin(conn *gorm.DB, markerPath string, admin AdminSeed, hash func(string) (string, error)) (bool, error) {
	fileSeeded, err := fileExists(markerPath)
	if err != nil {
		return false, fmt.Errorf("stat seed marker: %w", err)
	}
	rowSeeded, err := hasSeedRow(conn)
	if err != nil {
		return false, err
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	switch {
	case fileSeeded && rowSeeded:
		return false, nil
	case fileSeeded:
		return false, conn.Create(&model.Setting{Key: AdminSeededKey, Value: now}).Error
	case rowSeeded:
		return false, writeSeedMarker(markerPath, now)
	}

	digest, err := hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	err = conn.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.Session{}, &model.Note{}, &model.User{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		user := &model.User{
			Nickname:     admin.Nickname,
			Email:        common.NormalizeEmail(admin.Email),
			PasswordHash: digest,
			IsAdmin:      true,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.Setting{Key: AdminSeededKey, Value: now}).Error
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	if err := writeSeedMarker(markerPath, now); err != nil {
		// the settings row already prevents a second seed
		logger.Warning("write seed marker failed: ", err)
	}
	return true, nil
}

func hasSeedRow(conn *gorm.DB) (bool, error) {
	var count int64
	err := conn.Model(&model.Setting{}).Where("key = ?", AdminSeededKey).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("read seed marker row: %w", err)
	}
	return count > 0, nil
}

func writeSeedMarker(path, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(value), 0o644)
}
