package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/engine"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/middleware"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

const testPassword = "scanner-secret"

// newTestServer wires the API routes against an in-memory database, without
// the access logger, CORS, or static file handling.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	config.SetForTesting(config.AppConfig{
		AppPort:             "0",
		JWTSecret:           "test-secret",
		BaseURL:             "http://portal.test",
		RateLimitPerMinute:  10000,
		AdminUsername:       "officer",
		AdminName:           "Attendance Officer",
		AdminPasswordHash:   hash,
		OpenCouponsUncapped: true,
	})
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

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

	// The endpoints run on the wall clock; open the service window fully so
	// the suite passes no matter when it runs.
	s := engine.DefaultSettings()
	s.StartTime, s.StartMinutes = 0, 0
	s.EndTime, s.EndMinutes = 23, 59
	require.NoError(t, engine.SaveSettings(db, s))

	gin.SetMode(gin.TestMode)
	r := gin.New()

	authController := NewAuthController()
	couponController := NewCouponController(db)
	attendanceController := NewAttendanceController(db)
	settingsController := NewSettingsController(db)
	employeeController := NewEmployeeController(db)
	reportController := NewReportController(db)

	api := r.Group("/api/v1")
	api.POST("/auth/login", authController.Login)
	api.POST("/coupons", couponController.Issue)
	api.GET("/coupons/remaining", couponController.Remaining)
	api.GET("/coupons/qr", attendanceController.QRPayload)
	api.GET("/notice", settingsController.Notice)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/coupons", couponController.List)
	protected.POST("/coupons/special", couponController.IssueSpecial)
	protected.GET("/coupons/check", couponController.Check)
	protected.POST("/attendance", attendanceController.Mark)
	protected.GET("/attendance", attendanceController.List)
	protected.POST("/settings", settingsController.Update)
	protected.POST("/employees", employeeController.Upsert)
	protected.GET("/reports/range", reportController.Range)

	return r, db
}

func seedEmployee(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Employee{
		EmployeeID: id, FullName: name, IsActive: true,
	}).Error)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "officer",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := parsed["data"].(map[string]interface{})
	return data["token"].(string)
}

func dataOf(t *testing.T, parsed map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := parsed["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", parsed)
	return data
}
