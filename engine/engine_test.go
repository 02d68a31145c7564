package engine

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// newTestDB opens an in-memory SQLite database migrated with the portal
// schema. A single connection keeps every goroutine on the same in-memory
// database and lets SQLite serialize writers the way the MySQL row lock
// does in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Coupon{},
		&models.Attendance{},
		&models.Setting{},
		&models.DailySequence{},
		&models.RequestStat{},
	))

	return db
}

func seedEmployees(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Create(&models.Employee{
			EmployeeID: id,
			FullName:   "Employee " + id,
			Email:      id + "@example.com",
			IsActive:   true,
		}).Error)
	}
}

// noon on a fixed weekday, comfortably inside the default 10:00-23:00 window
func testNow() time.Time {
	return time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
}
