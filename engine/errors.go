package engine

import (
	"errors"
	"fmt"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// Business-rule rejections are returned as distinguishable errors, never as
// opaque failures. Controllers match them with errors.Is / errors.As and map
// them to HTTP statuses; anything else is treated as a persistence failure.
var (
	// ErrEmployeeNotFound means the requester is unknown or inactive.
	ErrEmployeeNotFound = errors.New("employee not found or inactive")
	// ErrCouponNotFound means the code is unknown or not valid for the date.
	ErrCouponNotFound = errors.New("invalid coupon code or coupon expired")
	// ErrInvalidCouponType rejects special issuance for an unknown category.
	ErrInvalidCouponType = errors.New("invalid coupon type")
	// ErrDuplicateCode surfaces a coupon_code uniqueness violation.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// WindowError rejects new employee issuance outside the service window. It
// carries the configured window so the caller can tell the user when to
// come back.
type WindowError struct {
	Start string
	End   string
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("coupon generation is only allowed between %s and %s", e.Start, e.End)
}

// LimitError rejects issuance when a quota pool is exhausted. Pool is "total"
// or one of the coupon categories.
type LimitError struct {
	Pool string
	Max  int
}

func (e *LimitError) Error() string {
	if e.Pool == "total" {
		return fmt.Sprintf("daily coupon limit of %d has been reached", e.Max)
	}
	return fmt.Sprintf("daily limit reached for %s coupons", e.Pool)
}

// AlreadyMarkedError rejects a second redemption of a coupon and carries the
// attendance row from the first one.
type AlreadyMarkedError struct {
	Attendance *models.Attendance
	CouponCode string
}

func (e *AlreadyMarkedError) Error() string {
	return "attendance already marked for this coupon"
}
