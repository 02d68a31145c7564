package models

import "time"

// Setting is one key/value row of the singleton portal configuration
// (quotas, service window, notice). Rows are upserted wholesale by the
// settings endpoint; there is no history.
type Setting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"size:64;uniqueIndex;not null" json:"settingKey"`
	SettingValue string    `gorm:"size:4096;not null" json:"settingValue"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
