package main

import (
	"path/filepath"
	"testing"

	"github.com/amoskalev/notepanel/config"
	"github.com/amoskalev/notepanel/database"
	"github.com/amoskalev/notepanel/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T, adminEmail string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Admin.Email = adminEmail
	cfg.Admin.Password = "admin-pass"
	cfg.Database = config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "panel.db")},
	}
	return cfg
}

func adminEmails(t *testing.T) []string {
	t.Helper()
	var emails []string
	require.NoError(t, database.GetDB().Model(&model.User{}).Pluck("email", &emails).Error)
	return emails
}

func TestReloadDBSwitchesDatabase(t *testing.T) {
	first := sqliteConfig(t, "first@example.com")
	second := sqliteConfig(t, "second@example.com")
	t.Cleanup(func() { database.CloseDB() })

	require.NoError(t, prepareDB(first))
	assert.Equal(t, []string{"first@example.com"}, adminEmails(t))

	require.NoError(t, reloadDB(second))
	assert.Equal(t, []string{"second@example.com"}, adminEmails(t))
	assert.FileExists(t, second.Database.SQLite.Path)
	assert.FileExists(t, second.Database.GetSeedMarkerPath())
}
