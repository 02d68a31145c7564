package models

import "time"

// DailySequence is the per-date monotonic counter behind employee coupon
// codes. Issuance locks this row FOR UPDATE, which both hands out the next
// sequence number and serializes concurrent issuance for the same date.
type DailySequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;uniqueIndex;not null" json:"date"`
	LastSeq   int       `gorm:"not null;default:0" json:"lastSeq"`
	UpdatedAt time.Time `json:"-"`
}
