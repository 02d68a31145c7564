package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

func issueForTest(t *testing.T, db *gorm.DB, employeeID string, now time.Time) models.Coupon {
	t.Helper()
	result, err := IssueEmployeeCoupon(db, employeeID, now)
	require.NoError(t, err)
	return result.Coupon
}

func TestMarkAttendance(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	markedAt := now.Add(30 * time.Minute)
	attendance, err := MarkAttendance(db, coupon.CouponCode, markedAt)
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, attendance.CouponID)
	assert.Equal(t, "AIPL0001", attendance.EmployeeID)
	assert.Equal(t, "2026-03-05", attendance.AttendanceDate)
	assert.True(t, attendance.IsPresent)
	assert.True(t, attendance.AttendanceMarkedAt.Equal(markedAt))

	// The coupon flips to used in the same transaction.
	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.True(t, reloaded.IsUsed)
	require.NotNil(t, reloaded.UsedAt)
	assert.True(t, reloaded.UsedAt.Equal(markedAt))
}

func TestMarkAttendanceTwiceReturnsOriginalRecord(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	first, err := MarkAttendance(db, coupon.CouponCode, now.Add(10*time.Minute))
	require.NoError(t, err)

	_, err = MarkAttendance(db, coupon.CouponCode, now.Add(2*time.Hour))
	var marked *AlreadyMarkedError
	require.ErrorAs(t, err, &marked)
	assert.Equal(t, coupon.CouponCode, marked.CouponCode)
	require.NotNil(t, marked.Attendance)
	assert.Equal(t, first.ID, marked.Attendance.ID)
	assert.True(t, marked.Attendance.AttendanceMarkedAt.Equal(first.AttendanceMarkedAt),
		"the original timestamp must survive a duplicate scan")

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkAttendanceUnknownOrExpired(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	_, err := MarkAttendance(db, "AMNEX-999-3/5/26", now)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = MarkAttendance(db, "", now)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	// Yesterday's coupon is not valid today; same error as an unknown code.
	_, err = MarkAttendance(db, coupon.CouponCode, now.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestMarkAttendanceConcurrentScans(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	const scans = 8
	errs := make([]error, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = MarkAttendance(db, coupon.CouponCode, now.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var marked *AlreadyMarkedError
		assert.ErrorAs(t, err, &marked)
	}
	assert.Equal(t, 1, winners, "exactly one scan wins")

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckCoupon(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	status, err := CheckCoupon(db, coupon.CouponCode, now)
	require.NoError(t, err)
	assert.True(t, status.IsValid)
	assert.Equal(t, "Coupon is valid", status.Message)

	// Checking never consumes the coupon.
	status, err = CheckCoupon(db, coupon.CouponCode, now)
	require.NoError(t, err)
	assert.True(t, status.IsValid)

	_, err = MarkAttendance(db, coupon.CouponCode, now)
	require.NoError(t, err)

	status, err = CheckCoupon(db, coupon.CouponCode, now)
	require.NoError(t, err)
	assert.False(t, status.IsValid)
	assert.Equal(t, "Coupon has already been used", status.Message)

	_, err = CheckCoupon(db, "NOPE", now)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCheckCouponWrongDay(t *testing.T) {
	db := newTestDB(t)
	seedEmployees(t, db, "AIPL0001")
	now := testNow()
	coupon := issueForTest(t, db, "AIPL0001", now)

	status, err := CheckCoupon(db, coupon.CouponCode, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, status.IsValid)
	assert.Equal(t, "Coupon is not valid for today", status.Message)
}
