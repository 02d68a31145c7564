package models

import "time"

// Coupon categories. Each category draws from its own daily quota pool.
const (
	CouponTypeEmployee    = "employee"
	CouponTypeGuest       = "guest"
	CouponTypeNewEmployee = "newEmployee"
	CouponTypeOpen        = "open"
)

// Placeholder employee IDs stored on special coupons that are not tied to a
// real employee record.
const (
	PlaceholderGuest       = "GUEST"
	PlaceholderNewEmployee = "NEW_EMP"
	PlaceholderOpen        = "OPEN"
)

// Coupon is one meal-coupon issuance record. DateCreated is the calendar day
// the coupon belongs to (the unit of all per-day rules), distinct from the
// CreatedAt insertion timestamp. CouponCode is unique across all coupons ever
// issued; the database index is the authority, not application checks.
type Coupon struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EmployeeID  string     `gorm:"size:32;index:idx_coupons_employee_date;not null" json:"employeeId"`
	CouponCode  string     `gorm:"size:64;uniqueIndex;not null" json:"couponCode"`
	CouponType  string     `gorm:"size:16;index;not null;default:employee" json:"couponType"`
	DateCreated string     `gorm:"size:10;index;index:idx_coupons_employee_date;not null" json:"dateCreated"`
	IsUsed      bool       `gorm:"not null;default:false" json:"isUsed"`
	UsedAt      *time.Time `json:"usedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// IsSpecialType reports whether t is one of the admin-issued categories.
func IsSpecialType(t string) bool {
	return t == CouponTypeGuest || t == CouponTypeNewEmployee || t == CouponTypeOpen
}

// PlaceholderFor returns the employee_id token stored for a special category.
func PlaceholderFor(couponType string) string {
	switch couponType {
	case CouponTypeGuest:
		return PlaceholderGuest
	case CouponTypeNewEmployee:
		return PlaceholderNewEmployee
	default:
		return PlaceholderOpen
	}
}
