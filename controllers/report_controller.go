package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// ReportController builds the date-range consumption report the finance team
// pulls at month end.
type ReportController struct {
	db *gorm.DB
}

// NewReportController creates a new controller instance.
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db}
}

type dailyReportRow struct {
	Date     string `json:"date"`
	Issued   int    `json:"issued"`
	Redeemed int    `json:"redeemed"`
}

type employeeReportRow struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Issued       int    `json:"issued"`
	Redeemed     int    `json:"redeemed"`
}

// Range returns, for an inclusive date range, the per-day issued/redeemed
// breakdown and the per-employee totals.
func (rc *ReportController) Range(ctx *gin.Context) {
	from, to, ok := rangeParams(ctx)
	if !ok {
		return
	}

	var daily []dailyReportRow
	err := rc.db.Model(&models.Coupon{}).
		Select("date_created AS date, COUNT(*) AS issued, SUM(CASE WHEN is_used THEN 1 ELSE 0 END) AS redeemed").
		Where("date_created BETWEEN ? AND ?", from, to).
		Group("date_created").
		Order("date_created ASC").
		Scan(&daily).Error
	if err != nil {
		utils.Sugar.Errorf("range report failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to build report")
		return
	}

	var perEmployee []employeeReportRow
	err = rc.db.Model(&models.Coupon{}).
		Select("coupons.employee_id AS employee_id, COALESCE(employees.full_name, '') AS employee_name, COUNT(*) AS issued, SUM(CASE WHEN coupons.is_used THEN 1 ELSE 0 END) AS redeemed").
		Joins("LEFT JOIN employees ON employees.employee_id = coupons.employee_id").
		Where("coupons.date_created BETWEEN ? AND ?", from, to).
		Group("coupons.employee_id, employees.full_name").
		Order("issued DESC").
		Scan(&perEmployee).Error
	if err != nil {
		utils.Sugar.Errorf("range report failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to build report")
		return
	}

	totalIssued, totalRedeemed := 0, 0
	for _, row := range daily {
		totalIssued += row.Issued
		totalRedeemed += row.Redeemed
	}

	utils.Success(ctx, gin.H{
		"from":          from,
		"to":            to,
		"totalIssued":   totalIssued,
		"totalRedeemed": totalRedeemed,
		"daily":         daily,
		"byEmployee":    perEmployee,
	})
}
