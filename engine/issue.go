package engine

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// IssueResult is the outcome of an accepted employee issuance request.
// IsExisting marks an idempotent replay: the employee already held a coupon
// for the date and got the same one back. Remaining is the aggregate quota
// left after this request, for both fresh issuance and replays.
type IssueResult struct {
	Coupon       models.Coupon
	EmployeeName string
	IsExisting   bool
	Remaining    int
}

// SpecialResult is the outcome of an accepted admin issuance request.
type SpecialResult struct {
	Coupon    models.Coupon
	Remaining int
}

// IssueEmployeeCoupon runs the issuance state machine for one
// (employeeId, date) pair:
//
//	replay lookup -> directory validation -> service-window gate ->
//	quota check -> create
//
// A replay never re-checks the window or the quota. The create path runs
// inside a transaction that locks the per-date sequence row first, so two
// concurrent first requests for the same employee cannot both insert: the
// loser re-runs the replay lookup under the lock and returns the winner's
// coupon.
func IssueEmployeeCoupon(db *gorm.DB, employeeID string, now time.Time) (*IssueResult, error) {
	employeeID = strings.TrimSpace(employeeID)
	date := DateKey(now)

	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	err = db.Where("employee_id = ? AND is_active = ?", employeeID, true).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A replay is allowed even for an employee that has since been
		// deactivated: the coupon already exists for today.
		var existing models.Coupon
		lookupErr := db.Where("employee_id = ? AND date_created = ?", employeeID, date).
			First(&existing).Error
		if lookupErr == nil {
			remaining, err := remainingFor(db, date, settings)
			if err != nil {
				return nil, err
			}
			return &IssueResult{Coupon: existing, IsExisting: true, Remaining: remaining}, nil
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, lookupErr
		}
		return nil, ErrEmployeeNotFound
	} else if err != nil {
		return nil, err
	}

	// Fast path: replay without touching the sequence lock.
	var existing models.Coupon
	err = db.Where("employee_id = ? AND date_created = ?", employeeID, date).First(&existing).Error
	if err == nil {
		remaining, err := remainingFor(db, date, settings)
		if err != nil {
			return nil, err
		}
		return &IssueResult{Coupon: existing, EmployeeName: employee.FullName, IsExisting: true, Remaining: remaining}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !WithinServiceWindow(now, settings) {
		start, end := FormatWindow(settings)
		return nil, &WindowError{Start: start, End: end}
	}

	result := &IssueResult{EmployeeName: employee.FullName}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := lockDate(tx, date); err != nil {
			return err
		}

		counts, err := CountForDate(tx, date)
		if err != nil {
			return err
		}
		quota := ComputeRemaining(counts, settings)

		// Re-check under the serializing lock; a concurrent request may have
		// inserted between the fast-path lookup and here.
		var raced models.Coupon
		if err := tx.Where("employee_id = ? AND date_created = ?", employeeID, date).
			First(&raced).Error; err == nil {
			result.Coupon = raced
			result.IsExisting = true
			result.Remaining = quota.Remaining
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if quota.Remaining <= 0 {
			return &LimitError{Pool: "total", Max: settings.MaxCoupons}
		}

		seq, err := nextSequence(tx, date)
		if err != nil {
			return err
		}

		coupon := models.Coupon{
			EmployeeID:  employeeID,
			CouponCode:  employeeCode(seq, now),
			CouponType:  models.CouponTypeEmployee,
			DateCreated: date,
			IsUsed:      false,
			CreatedAt:   now,
		}
		if err := tx.Create(&coupon).Error; err != nil {
			return err
		}

		result.Coupon = coupon
		result.Remaining = quota.Remaining - 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IssueSpecialCoupon creates an admin-issued guest/newEmployee/open coupon.
// It bypasses the directory lookup and the service window but enforces the
// category's own daily cap. The open pool is uncapped when uncappedOpen is
// set, preserving the portal's historical behavior; flip the flag to cap it
// by the openCoupons setting.
func IssueSpecialCoupon(db *gorm.DB, couponType, requestedCode string, now time.Time, uncappedOpen bool) (*SpecialResult, error) {
	if !models.IsSpecialType(couponType) {
		return nil, ErrInvalidCouponType
	}
	date := DateKey(now)

	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(requestedCode)
	if code == "" {
		code = RandomSpecialCode(now)
	}

	result := &SpecialResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		// Serialize per-date issuance the same way employee issuance does so
		// the cap check cannot race a concurrent insert.
		if err := lockDate(tx, date); err != nil {
			return err
		}

		var used int64
		if err := tx.Model(&models.Coupon{}).
			Where("coupon_type = ? AND date_created = ?", couponType, date).
			Count(&used).Error; err != nil {
			return err
		}

		limit := capFor(couponType, settings)
		if couponType == models.CouponTypeOpen && uncappedOpen {
			result.Remaining = -1
		} else {
			if int(used) >= limit {
				return &LimitError{Pool: couponType, Max: limit}
			}
			result.Remaining = limit - int(used) - 1
		}

		coupon := models.Coupon{
			EmployeeID:  models.PlaceholderFor(couponType),
			CouponCode:  code,
			CouponType:  couponType,
			DateCreated: date,
			IsUsed:      false,
			CreatedAt:   now,
		}
		if err := tx.Create(&coupon).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCode
			}
			return err
		}
		result.Coupon = coupon
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// remainingFor reports the aggregate slots still open for a date.
func remainingFor(db *gorm.DB, date string, s Settings) (int, error) {
	counts, err := CountForDate(db, date)
	if err != nil {
		return 0, err
	}
	return ComputeRemaining(counts, s).Remaining, nil
}

func capFor(couponType string, s Settings) int {
	switch couponType {
	case models.CouponTypeGuest:
		return s.GuestCoupons
	case models.CouponTypeNewEmployee:
		return s.NewEmployeeCoupons
	default:
		return s.OpenCoupons
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
