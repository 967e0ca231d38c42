// Package databasetest opens migrated in-memory sqlite databases for repository tests.
package databasetest

import (
	"testing"

	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func SetupLogger(t *testing.T) *logger.Logger {
	t.Helper()
	loggerInstance, err := logger.NewLogger()
	require.NoError(t, err)
	return loggerInstance
}

// NewDB returns a fresh migrated database that lives until the test ends
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	loggerInstance := SetupLogger(t)
	db, err := database.Open(database.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"}, loggerInstance)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateEntitiesGORM(db, loggerInstance))
	return db
}
