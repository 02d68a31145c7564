package main

import (
	"time"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/routes"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Employee{},
		&models.Coupon{},
		&models.Attendance{},
		&models.Setting{},
		&models.DailySequence{},
		&models.RequestStat{},
	)

	r := routes.SetupRouter(db)

	// Best-effort retention for stats and sequence rows; coupons and
	// attendance are kept forever.
	utils.StartStatsCleaner(time.Hour, cfg.StatsRetainDays)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
