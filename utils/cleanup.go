package utils

import (
	"time"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// StartStatsCleaner launches a background goroutine that periodically purges
// request-stat and daily-sequence rows older than the retention window.
// Coupons and attendance are never touched; they are the audit trail the
// range reports read. Best-effort: failures are logged and retried on the
// next tick.
func StartStatsCleaner(interval time.Duration, retainDays int) {
	if interval <= 0 {
		interval = time.Hour
	}
	if retainDays <= 0 {
		retainDays = 90
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			cutoff := time.Now().AddDate(0, 0, -retainDays).Format("2006-01-02")
			if err := db.Where("date < ?", cutoff).Delete(&models.RequestStat{}).Error; err != nil {
				Sugar.Warnf("stats cleaner: purge request stats failed: %v", err)
			}
			if err := db.Where("date < ?", cutoff).Delete(&models.DailySequence{}).Error; err != nil {
				Sugar.Warnf("stats cleaner: purge daily sequences failed: %v", err)
			}
		}
	}()
}
