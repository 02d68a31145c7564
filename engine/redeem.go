package engine

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// MarkAttendance redeems a coupon exactly once. The coupon row is locked for
// the whole check-then-write sequence, so of two simultaneous scans of the
// same QR code one wins and the other gets AlreadyMarkedError carrying the
// winner's attendance row. The attendance insert and the coupon flip commit
// together or not at all.
func MarkAttendance(db *gorm.DB, couponCode string, now time.Time) (*models.Attendance, error) {
	couponCode = strings.TrimSpace(couponCode)
	if couponCode == "" {
		return nil, ErrCouponNotFound
	}
	date := DateKey(now)

	var attendance models.Attendance
	err := db.Transaction(func(tx *gorm.DB) error {
		var coupon models.Coupon
		err := lockForUpdate(tx).
			Where("coupon_code = ? AND date_created = ?", couponCode, date).
			First(&coupon).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		} else if err != nil {
			return err
		}

		var existing models.Attendance
		err = tx.Where("coupon_id = ? AND attendance_date = ?", coupon.ID, date).
			First(&existing).Error
		if err == nil {
			return &AlreadyMarkedError{Attendance: &existing, CouponCode: couponCode}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		attendance = models.Attendance{
			CouponID:           coupon.ID,
			EmployeeID:         coupon.EmployeeID,
			AttendanceDate:     date,
			IsPresent:          true,
			AttendanceMarkedAt: now,
		}
		if err := tx.Create(&attendance).Error; err != nil {
			return err
		}

		return tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
			Updates(map[string]interface{}{"is_used": true, "used_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// CouponStatus is the non-mutating validation preview shown to the
// attendance officer before scanning.
type CouponStatus struct {
	IsValid bool          `json:"isValid"`
	Message string        `json:"message"`
	Coupon  models.Coupon `json:"coupon"`
}

// CheckCoupon classifies a code as valid, already used, or not valid for
// today. It never modifies state; redemption remains the only writer.
func CheckCoupon(db *gorm.DB, couponCode string, now time.Time) (*CouponStatus, error) {
	var coupon models.Coupon
	err := db.Where("coupon_code = ?", couponCode).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCouponNotFound
	} else if err != nil {
		return nil, err
	}

	status := &CouponStatus{Coupon: coupon}
	switch {
	case coupon.IsUsed:
		status.Message = "Coupon has already been used"
	case coupon.DateCreated != DateKey(now):
		status.Message = "Coupon is not valid for today"
	default:
		status.IsValid = true
		status.Message = "Coupon is valid"
	}
	return status, nil
}
