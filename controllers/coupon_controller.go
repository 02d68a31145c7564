package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/engine"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// CouponController exposes issuance and coupon queries.
type CouponController struct {
	db *gorm.DB
}

// NewCouponController creates a new controller instance.
func NewCouponController(db *gorm.DB) *CouponController {
	return &CouponController{db: db}
}

type issueRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	SendEmail  bool   `json:"sendEmail"`
}

type specialIssueRequest struct {
	CouponType string `json:"couponType" binding:"required"`
	CouponCode string `json:"couponCode"`
}

// Issue handles the employee self-service issuance request. Replays return
// 200 with the existing coupon; a fresh issuance returns 201.
func (cc *CouponController) Issue(ctx *gin.Context) {
	var req issueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "employeeId is required")
		return
	}

	result, err := engine.IssueEmployeeCoupon(cc.db, req.EmployeeID, time.Now())
	if err != nil {
		cc.respondIssueError(ctx, err)
		return
	}

	data := gin.H{
		"coupon":       result.Coupon,
		"employeeName": result.EmployeeName,
		"isExisting":   result.IsExisting,
		"remaining":    result.Remaining,
	}

	if req.SendEmail {
		sent, mailErr := cc.mailCoupon(req.EmployeeID, result)
		data["emailSent"] = sent
		if mailErr != nil {
			data["emailError"] = mailErr.Error()
		}
	}

	if result.IsExisting {
		utils.Success(ctx, data)
		return
	}
	utils.Created(ctx, data)
}

// mailCoupon looks up the employee's address and sends the coupon email.
// A mail failure never fails the issuance; the coupon is already committed.
func (cc *CouponController) mailCoupon(employeeID string, result *engine.IssueResult) (bool, error) {
	var employee models.Employee
	if err := cc.db.Where("employee_id = ?", employeeID).First(&employee).Error; err != nil {
		return false, errors.New("employee record not found for email delivery")
	}
	if employee.Email == "" {
		return false, errors.New("no email address on file")
	}
	if err := utils.SendCouponMail(employee.Email, result.EmployeeName, result.Coupon.CouponCode, result.Coupon.CreatedAt); err != nil {
		utils.Sugar.Warnf("coupon mail to %s failed: %v", employee.Email, err)
		return false, errors.New("failed to send coupon email")
	}
	return true, nil
}

// IssueSpecial creates a guest/newEmployee/open coupon. Officer only: it
// bypasses the directory and the service window.
func (cc *CouponController) IssueSpecial(ctx *gin.Context) {
	var req specialIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "couponType is required")
		return
	}

	result, err := engine.IssueSpecialCoupon(cc.db, req.CouponType, req.CouponCode, time.Now(), config.Get().OpenCouponsUncapped)
	if err != nil {
		cc.respondIssueError(ctx, err)
		return
	}

	utils.Created(ctx, gin.H{
		"coupon":    result.Coupon,
		"remaining": result.Remaining,
	})
}

func (cc *CouponController) respondIssueError(ctx *gin.Context, err error) {
	var windowErr *engine.WindowError
	var limitErr *engine.LimitError
	switch {
	case errors.Is(err, engine.ErrEmployeeNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "Employee ID not found or inactive. Please contact admin for further details.")
	case errors.Is(err, engine.ErrInvalidCouponType):
		utils.Error(ctx, http.StatusBadRequest, 40012, "coupon type must be guest, newEmployee or open")
	case errors.Is(err, engine.ErrDuplicateCode):
		utils.Error(ctx, http.StatusConflict, 40910, "coupon code already exists")
	case errors.As(err, &windowErr):
		utils.Error(ctx, http.StatusForbidden, 40310, windowErr.Error())
	case errors.As(err, &limitErr):
		utils.Error(ctx, http.StatusForbidden, 40311, limitErr.Error())
	default:
		utils.Sugar.Errorf("issuance failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create coupon")
	}
}

// Check is the non-mutating coupon preview used by the scanner page. The
// code arrives as a query parameter: employee codes contain slashes and
// cannot ride in a path segment.
func (cc *CouponController) Check(ctx *gin.Context) {
	code := strings.TrimSpace(ctx.Query("code"))
	if code == "" {
		utils.Error(ctx, http.StatusBadRequest, 40016, "code query parameter is required")
		return
	}
	status, err := engine.CheckCoupon(cc.db, code, time.Now())
	if err != nil {
		if errors.Is(err, engine.ErrCouponNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "Invalid coupon code or coupon expired")
			return
		}
		utils.Sugar.Errorf("coupon check failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to check coupon")
		return
	}
	utils.Success(ctx, status)
}

// List returns all coupons for one date (default today), newest first.
func (cc *CouponController) List(ctx *gin.Context) {
	date, ok := dateParam(ctx, "date")
	if !ok {
		return
	}

	var coupons []models.Coupon
	if err := cc.db.Where("date_created = ?", date).
		Order("created_at DESC").Find(&coupons).Error; err != nil {
		utils.Sugar.Errorf("coupon list failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to fetch coupons")
		return
	}

	utils.Success(ctx, gin.H{
		"date":    date,
		"count":   len(coupons),
		"coupons": coupons,
	})
}

// ListRange returns coupons between from and to inclusive.
func (cc *CouponController) ListRange(ctx *gin.Context) {
	from, to, ok := rangeParams(ctx)
	if !ok {
		return
	}

	var coupons []models.Coupon
	if err := cc.db.Where("date_created BETWEEN ? AND ?", from, to).
		Order("date_created ASC, created_at ASC").Find(&coupons).Error; err != nil {
		utils.Sugar.Errorf("coupon range list failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to fetch coupons")
		return
	}

	utils.Success(ctx, gin.H{
		"from":    from,
		"to":      to,
		"count":   len(coupons),
		"coupons": coupons,
	})
}

// Stats returns the per-category counts and quota view for one date.
func (cc *CouponController) Stats(ctx *gin.Context) {
	date, ok := dateParam(ctx, "date")
	if !ok {
		return
	}

	settings, err := engine.LoadSettings(cc.db)
	if err != nil {
		utils.Sugar.Errorf("settings load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to fetch stats")
		return
	}

	counts, err := engine.CountForDate(cc.db, date)
	if err != nil {
		utils.Sugar.Errorf("coupon stats failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to fetch stats")
		return
	}

	var redeemed int64
	if err := cc.db.Model(&models.Coupon{}).
		Where("date_created = ? AND is_used = ?", date, true).
		Count(&redeemed).Error; err != nil {
		utils.Sugar.Errorf("coupon stats failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to fetch stats")
		return
	}

	quota := engine.ComputeRemaining(counts, settings)
	utils.Success(ctx, gin.H{
		"date":     date,
		"counts":   counts,
		"redeemed": redeemed,
		"quota":    quota,
	})
}

// Count returns just today's issued-coupon count; the portal landing page
// polls it.
func (cc *CouponController) Count(ctx *gin.Context) {
	date, ok := dateParam(ctx, "date")
	if !ok {
		return
	}

	counts, err := engine.CountForDate(cc.db, date)
	if err != nil {
		utils.Sugar.Errorf("coupon count failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to fetch coupon count")
		return
	}

	utils.Success(ctx, gin.H{
		"date":   date,
		"total":  counts.Employee + counts.Guest + counts.NewEmployee + counts.Open,
		"counts": counts,
	})
}

// Remaining returns the public quota view for today, shown on the request
// form before the employee submits.
func (cc *CouponController) Remaining(ctx *gin.Context) {
	settings, err := engine.LoadSettings(cc.db)
	if err != nil {
		utils.Sugar.Errorf("settings load failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to fetch remaining quota")
		return
	}

	now := time.Now()
	quota, err := engine.Remaining(cc.db, engine.DateKey(now), settings)
	if err != nil {
		utils.Sugar.Errorf("remaining quota failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to fetch remaining quota")
		return
	}

	start, end := engine.FormatWindow(settings)
	utils.Success(ctx, gin.H{
		"date":         engine.DateKey(now),
		"quota":        quota,
		"windowOpen":   engine.WithinServiceWindow(now, settings),
		"serviceStart": start,
		"serviceEnd":   end,
	})
}

// dateParam reads an optional YYYY-MM-DD query parameter, defaulting to
// today. Responds 400 itself on a malformed value.
func dateParam(ctx *gin.Context, name string) (string, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return engine.DateKey(time.Now()), true
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "date must be in YYYY-MM-DD format")
		return "", false
	}
	return raw, true
}

// rangeParams reads required from/to query parameters.
func rangeParams(ctx *gin.Context) (string, string, bool) {
	from := ctx.Query("from")
	to := ctx.Query("to")
	if from == "" || to == "" {
		utils.Error(ctx, http.StatusBadRequest, 40014, "from and to query parameters are required")
		return "", "", false
	}
	for _, raw := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40013, "date must be in YYYY-MM-DD format")
			return "", "", false
		}
	}
	if from > to {
		utils.Error(ctx, http.StatusBadRequest, 40015, "from must not be after to")
		return "", "", false
	}
	return from, to, true
}
