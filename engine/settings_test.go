package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

func TestLoadSettingsDefaultsOnEmptyTable(t *testing.T) {
	db := newTestDB(t)

	s, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, 70, s.MaxCoupons)
	assert.Equal(t, 10, s.StartTime)
	assert.Equal(t, 23, s.EndTime)
}

func TestLoadSettingsOverlaysStoredValues(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Setting{SettingKey: "maxCoupons", SettingValue: "120"}).Error)
	require.NoError(t, db.Create(&models.Setting{SettingKey: "noticeTitle", SettingValue: "Holiday hours"}).Error)
	// Unknown keys are ignored, malformed numerics fall back to the default.
	require.NoError(t, db.Create(&models.Setting{SettingKey: "legacyKey", SettingValue: "x"}).Error)
	require.NoError(t, db.Create(&models.Setting{SettingKey: "guestCoupons", SettingValue: "not-a-number"}).Error)

	s, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 120, s.MaxCoupons)
	assert.Equal(t, "Holiday hours", s.NoticeTitle)
	assert.Equal(t, DefaultSettings().GuestCoupons, s.GuestCoupons)
	assert.Equal(t, DefaultSettings().StartTime, s.StartTime)
}

func TestSaveSettingsRoundtrip(t *testing.T) {
	db := newTestDB(t)

	s := DefaultSettings()
	s.MaxCoupons = 55
	s.StartTime, s.StartMinutes = 9, 30
	s.NoticeHTML = "<p>Biryani Friday</p>"
	require.NoError(t, SaveSettings(db, s))

	loaded, err := LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	// Saving again overwrites in place; no duplicate rows accumulate.
	s.MaxCoupons = 60
	require.NoError(t, SaveSettings(db, s))
	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Where("setting_key = ?", "maxCoupons").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	loaded, err = LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 60, loaded.MaxCoupons)
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())

	bad := s
	bad.MaxCoupons = -1
	assert.Error(t, bad.Validate())

	bad = s
	bad.StartTime = 24
	assert.Error(t, bad.Validate())

	bad = s
	bad.EndMinutes = 60
	assert.Error(t, bad.Validate())

	db := newTestDB(t)
	assert.Error(t, SaveSettings(db, bad), "invalid settings must not be persisted")
}
