package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
)

func TestNewDB_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("fire_records"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
