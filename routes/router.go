package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/controllers"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/middleware"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file, separate from the app log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestStatRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/scan-qr", func(c *gin.Context) {
		c.File("./static/scan-qr.html")
	})

	r.GET("/admin", func(c *gin.Context) {
		c.File("./static/admin.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController()
	couponController := controllers.NewCouponController(db)
	attendanceController := controllers.NewAttendanceController(db)
	settingsController := controllers.NewSettingsController(db)
	employeeController := controllers.NewEmployeeController(db)
	reportController := controllers.NewReportController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/verify", middleware.AuthRequired(), authController.Verify)

	// Public endpoints the employee-facing pages use. Issuance is rate limited
	// per IP so a script cannot drain the day's quota.
	api.POST("/coupons", middleware.RateLimitMiddleware(), couponController.Issue)
	api.GET("/coupons/remaining", couponController.Remaining)
	api.GET("/coupons/count", couponController.Count)
	api.GET("/coupons/qr", attendanceController.QRPayload)
	api.GET("/notice", settingsController.Notice)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/coupons", couponController.List)
	protected.GET("/coupons/range", couponController.ListRange)
	protected.GET("/coupons/stats", couponController.Stats)
	protected.GET("/coupons/check", couponController.Check)
	protected.POST("/coupons/special", couponController.IssueSpecial)

	protected.POST("/attendance", attendanceController.Mark)
	protected.GET("/attendance", attendanceController.List)

	protected.GET("/settings", settingsController.Get)
	protected.POST("/settings", settingsController.Update)

	protected.GET("/employees", employeeController.List)
	protected.POST("/employees", employeeController.Upsert)

	protected.GET("/reports/range", reportController.Range)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
