package models

import "time"

// Attendance is a redemption record for a coupon on a given date. The unique
// index on (coupon_id, attendance_date) backs the mark-once guard: a second
// redemption of the same coupon must observe the existing row, never create
// another one.
type Attendance struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CouponID           uint      `gorm:"uniqueIndex:idx_attendance_coupon_date;not null" json:"couponId"`
	EmployeeID         string    `gorm:"size:32;index;not null" json:"employeeId"`
	AttendanceDate     string    `gorm:"size:10;uniqueIndex:idx_attendance_coupon_date;index;not null" json:"attendanceDate"`
	IsPresent          bool      `gorm:"not null;default:false" json:"isPresent"`
	AttendanceMarkedAt time.Time `json:"attendanceMarkedAt"`
	CreatedAt          time.Time `json:"-"`
}
