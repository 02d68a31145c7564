package engine

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// Settings is the portal's singleton configuration: daily quota pools, the
// service-hour window, and the cafeteria notice. It is fetched fresh from the
// database for every engine call; nothing holds a long-lived copy.
type Settings struct {
	MaxCoupons         int    `json:"maxCoupons"`
	StartTime          int    `json:"startTime"`
	StartMinutes       int    `json:"startMinutes"`
	EndTime            int    `json:"endTime"`
	EndMinutes         int    `json:"endMinutes"`
	GuestCoupons       int    `json:"guestCoupons"`
	NewEmployeeCoupons int    `json:"newEmployeeCoupons"`
	OpenCoupons        int    `json:"openCoupons"`
	NoticeTitle        string `json:"noticeTitle"`
	NoticeHTML         string `json:"noticeHtml"`
}

// DefaultSettings returns the canonical defaults used whenever a key is
// missing from storage.
func DefaultSettings() Settings {
	return Settings{
		MaxCoupons:         70,
		StartTime:          10,
		StartMinutes:       0,
		EndTime:            23,
		EndMinutes:         0,
		GuestCoupons:       20,
		NewEmployeeCoupons: 10,
		OpenCoupons:        10,
	}
}

// LoadSettings reads the settings table and overlays stored values onto the
// defaults. Unknown keys are ignored; malformed numeric values fall back to
// the default for that key.
func LoadSettings(db *gorm.DB) (Settings, error) {
	s := DefaultSettings()

	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return s, err
	}

	for _, row := range rows {
		switch row.SettingKey {
		case "maxCoupons":
			setInt(&s.MaxCoupons, row.SettingValue)
		case "startTime":
			setInt(&s.StartTime, row.SettingValue)
		case "startMinutes":
			setInt(&s.StartMinutes, row.SettingValue)
		case "endTime":
			setInt(&s.EndTime, row.SettingValue)
		case "endMinutes":
			setInt(&s.EndMinutes, row.SettingValue)
		case "guestCoupons":
			setInt(&s.GuestCoupons, row.SettingValue)
		case "newEmployeeCoupons":
			setInt(&s.NewEmployeeCoupons, row.SettingValue)
		case "openCoupons":
			setInt(&s.OpenCoupons, row.SettingValue)
		case "noticeTitle":
			s.NoticeTitle = row.SettingValue
		case "noticeHtml":
			s.NoticeHTML = row.SettingValue
		}
	}

	return s, nil
}

// Validate bounds-checks a settings object before it is persisted. The
// original portal accepted anything; the checks here are a deliberate
// hardening so an admin typo cannot wedge issuance.
func (s Settings) Validate() error {
	if s.MaxCoupons < 0 || s.GuestCoupons < 0 || s.NewEmployeeCoupons < 0 || s.OpenCoupons < 0 {
		return fmt.Errorf("quota values must not be negative")
	}
	if s.StartTime < 0 || s.StartTime > 23 || s.EndTime < 0 || s.EndTime > 23 {
		return fmt.Errorf("hours must be between 0 and 23")
	}
	if s.StartMinutes < 0 || s.StartMinutes > 59 || s.EndMinutes < 0 || s.EndMinutes > 59 {
		return fmt.Errorf("minutes must be between 0 and 59")
	}
	return nil
}

// SaveSettings persists the full settings object wholesale. There is no merge
// with previous values: every field the caller omits reverts to its zero and
// is stored as such. Each key is upserted so a change takes effect for the
// very next request, including requests for today.
func SaveSettings(db *gorm.DB, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	pairs := map[string]string{
		"maxCoupons":         strconv.Itoa(s.MaxCoupons),
		"startTime":          strconv.Itoa(s.StartTime),
		"startMinutes":       strconv.Itoa(s.StartMinutes),
		"endTime":            strconv.Itoa(s.EndTime),
		"endMinutes":         strconv.Itoa(s.EndMinutes),
		"guestCoupons":       strconv.Itoa(s.GuestCoupons),
		"newEmployeeCoupons": strconv.Itoa(s.NewEmployeeCoupons),
		"openCoupons":        strconv.Itoa(s.OpenCoupons),
		"noticeTitle":        s.NoticeTitle,
		"noticeHtml":         s.NoticeHTML,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for key, value := range pairs {
			row := models.Setting{SettingKey: key, SettingValue: value, UpdatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func setInt(dst *int, raw string) {
	if v, err := strconv.Atoi(raw); err == nil {
		*dst = v
	}
}
