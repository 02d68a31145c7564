package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// RequestStatRecorder aggregates successful API hits per day and path for the
// admin dashboard. The upsert is atomic so concurrent requests for the same
// (date, path) cannot produce duplicate-key errors.
func RequestStatRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		path := c.FullPath()
		if path == "" || path == "/health" || strings.HasPrefix(path, "/static") {
			return
		}

		now := time.Now()
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": now}),
		}).Create(&models.RequestStat{Date: now.Format("2006-01-02"), Path: path, Count: 1}).Error
	}
}
