package services

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khao-backend/models"
)

// newTestDB opens a file-backed sqlite database under the test's temp dir.
// A file keeps all pool connections on the same database, which :memory:
// does not guarantee.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
	))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createUser(t *testing.T, db *gorm.DB, countryCode, phone string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		CountryCode: countryCode,
		PhoneNumber: phone,
		Role:        role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
