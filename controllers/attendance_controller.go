package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/engine"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// AttendanceController exposes redemption and the daily roster.
type AttendanceController struct {
	db *gorm.DB
}

// NewAttendanceController creates a new controller instance.
func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{db: db}
}

type markRequest struct {
	CouponCode string `json:"couponCode" binding:"required"`
}

// Mark redeems a coupon. A second scan of the same coupon gets 409 with the
// original attendance record in the payload so the officer sees when the
// first redemption happened.
func (ac *AttendanceController) Mark(ctx *gin.Context) {
	var req markRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "couponCode is required")
		return
	}

	attendance, err := engine.MarkAttendance(ac.db, req.CouponCode, time.Now())
	if err != nil {
		var marked *engine.AlreadyMarkedError
		switch {
		case errors.Is(err, engine.ErrCouponNotFound):
			utils.Error(ctx, http.StatusNotFound, 40411, "Invalid coupon code or coupon expired")
		case errors.As(err, &marked):
			utils.ErrorData(ctx, http.StatusConflict, 40920, "attendance already marked for this coupon", gin.H{
				"attendance": marked.Attendance,
				"couponCode": marked.CouponCode,
			})
		default:
			utils.Sugar.Errorf("attendance mark failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to mark attendance")
		}
		return
	}

	utils.Created(ctx, gin.H{
		"attendance": attendance,
		"message":    "attendance marked",
	})
}

type rosterEntry struct {
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	CouponCode   string     `json:"couponCode"`
	CouponType   string     `json:"couponType"`
	IsPresent    bool       `json:"isPresent"`
	MarkedAt     *time.Time `json:"markedAt"`
}

// List returns the attendance roster for one date: every coupon issued that
// day joined with its redemption state. status=present or status=absent
// filters the roster.
func (ac *AttendanceController) List(ctx *gin.Context) {
	date, ok := dateParam(ctx, "date")
	if !ok {
		return
	}
	status := ctx.Query("status")
	if status != "" && status != "present" && status != "absent" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "status must be present or absent")
		return
	}

	var coupons []models.Coupon
	if err := ac.db.Where("date_created = ?", date).
		Order("created_at ASC").Find(&coupons).Error; err != nil {
		utils.Sugar.Errorf("attendance roster failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to fetch attendance")
		return
	}

	names := ac.employeeNames(coupons)
	attendances, err := ac.attendanceByCoupon(date)
	if err != nil {
		utils.Sugar.Errorf("attendance roster failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to fetch attendance")
		return
	}

	entries := make([]rosterEntry, 0, len(coupons))
	present := 0
	for _, coupon := range coupons {
		entry := rosterEntry{
			EmployeeID:   coupon.EmployeeID,
			EmployeeName: names[coupon.EmployeeID],
			CouponCode:   coupon.CouponCode,
			CouponType:   coupon.CouponType,
		}
		if att, ok := attendances[coupon.ID]; ok {
			entry.IsPresent = att.IsPresent
			markedAt := att.AttendanceMarkedAt
			entry.MarkedAt = &markedAt
		}
		if entry.IsPresent {
			present++
		}
		if status == "present" && !entry.IsPresent {
			continue
		}
		if status == "absent" && entry.IsPresent {
			continue
		}
		entries = append(entries, entry)
	}

	utils.Success(ctx, gin.H{
		"date":    date,
		"total":   len(coupons),
		"present": present,
		"absent":  len(coupons) - present,
		"roster":  entries,
	})
}

func (ac *AttendanceController) employeeNames(coupons []models.Coupon) map[string]string {
	ids := make([]string, 0, len(coupons))
	seen := map[string]bool{}
	for _, c := range coupons {
		if c.CouponType == models.CouponTypeEmployee && !seen[c.EmployeeID] {
			seen[c.EmployeeID] = true
			ids = append(ids, c.EmployeeID)
		}
	}
	names := map[string]string{}
	if len(ids) == 0 {
		return names
	}
	var employees []models.Employee
	if err := ac.db.Where("employee_id IN ?", ids).Find(&employees).Error; err != nil {
		utils.Sugar.Warnf("employee name lookup failed: %v", err)
		return names
	}
	for _, e := range employees {
		names[e.EmployeeID] = e.FullName
	}
	return names
}

func (ac *AttendanceController) attendanceByCoupon(date string) (map[uint]models.Attendance, error) {
	var rows []models.Attendance
	if err := ac.db.Where("attendance_date = ?", date).Find(&rows).Error; err != nil {
		return nil, err
	}
	byCoupon := make(map[uint]models.Attendance, len(rows))
	for _, row := range rows {
		byCoupon[row.CouponID] = row
	}
	return byCoupon, nil
}

// QRPayload returns the URL encoded into a coupon's QR code. The frontend
// renders the QR image; the backend owns the payload format so it stays in
// sync with the scanner route. The code arrives as a query parameter:
// employee codes contain slashes and cannot ride in a path segment.
func (ac *AttendanceController) QRPayload(ctx *gin.Context) {
	code := strings.TrimSpace(ctx.Query("code"))
	if code == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "code query parameter is required")
		return
	}

	var coupon models.Coupon
	if err := ac.db.Where("coupon_code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "Invalid coupon code or coupon expired")
			return
		}
		utils.Sugar.Errorf("qr payload lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to build QR payload")
		return
	}

	base := strings.TrimRight(config.Get().BaseURL, "/")
	utils.Success(ctx, gin.H{
		"couponCode": coupon.CouponCode,
		"url":        base + "/scan-qr?code=" + url.QueryEscape(coupon.CouponCode) + "&auto=true",
	})
}
