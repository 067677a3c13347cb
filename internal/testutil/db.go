// Package testutil holds helpers shared by package tests
package testutil

import (
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/db"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB opens a migrated sqlite database that lives as long as the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := db.New(config.StorageConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return d
}
