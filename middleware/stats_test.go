package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

func statsTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.RequestStat{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestStatRecorder(db))
	r.GET("/api/v1/coupons/remaining", func(c *gin.Context) { c.JSON(200, gin.H{}) })
	r.GET("/api/v1/broken", func(c *gin.Context) { c.JSON(500, gin.H{}) })
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{}) })
	return r, db
}

func hit(r *gin.Engine, path string) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestRequestStatRecorder(t *testing.T) {
	r, db := statsTestRouter(t)

	hit(r, "/api/v1/coupons/remaining")
	hit(r, "/api/v1/coupons/remaining")
	hit(r, "/api/v1/coupons/remaining")

	var stat models.RequestStat
	require.NoError(t, db.Where("path = ?", "/api/v1/coupons/remaining").First(&stat).Error)
	assert.EqualValues(t, 3, stat.Count)

	var rows int64
	require.NoError(t, db.Model(&models.RequestStat{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "repeat hits update one row")
}

func TestRequestStatRecorderSkips(t *testing.T) {
	r, db := statsTestRouter(t)

	// Errors and the health probe are not counted.
	hit(r, "/api/v1/broken")
	hit(r, "/health")
	hit(r, "/does-not-exist")

	var rows int64
	require.NoError(t, db.Model(&models.RequestStat{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}
