package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/engine"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// SettingsController manages the portal configuration and the public
// cafeteria notice.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a new controller instance.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// Get returns the full settings object. Served from the short-TTL Redis
// cache when available; the engine always reads the database directly, so a
// stale cache can only delay what the admin UI displays, never what
// issuance enforces.
func (sc *SettingsController) Get(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(utils.SettingsCacheKey); ok {
		var s engine.Settings
		if err := json.Unmarshal(cached, &s); err == nil {
			utils.Success(ctx, s)
			return
		}
	}

	settings, err := engine.LoadSettings(sc.db)
	if err != nil {
		utils.Sugar.Errorf("settings load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to fetch settings")
		return
	}

	utils.CacheSetJSON(utils.SettingsCacheKey, settings, 0)
	utils.Success(ctx, settings)
}

// Update persists a full settings object. The notice HTML is sanitized on
// the way in; stored markup is always safe to render verbatim.
func (sc *SettingsController) Update(ctx *gin.Context) {
	var settings engine.Settings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid settings payload")
		return
	}

	settings.NoticeHTML = utils.SanitizeNotice(settings.NoticeHTML)

	if err := engine.SaveSettings(sc.db, settings); err != nil {
		if err := settings.Validate(); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40031, err.Error())
			return
		}
		utils.Sugar.Errorf("settings save failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to save settings")
		return
	}

	utils.CacheDelete(utils.SettingsCacheKey)
	utils.Success(ctx, settings)
}

// Notice returns just the cafeteria notice for the public landing page.
func (sc *SettingsController) Notice(ctx *gin.Context) {
	settings, err := engine.LoadSettings(sc.db)
	if err != nil {
		utils.Sugar.Errorf("settings load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to fetch notice")
		return
	}

	utils.Success(ctx, gin.H{
		"title": settings.NoticeTitle,
		"html":  settings.NoticeHTML,
	})
}
