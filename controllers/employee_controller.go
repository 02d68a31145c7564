package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/utils"
)

// EmployeeController manages the staff directory the issuance engine
// validates against.
type EmployeeController struct {
	db *gorm.DB
}

// NewEmployeeController creates a new controller instance.
func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{db: db}
}

// List returns the directory, optionally filtered with ?q= on ID or name and
// ?active=true|false.
func (ec *EmployeeController) List(ctx *gin.Context) {
	query := ec.db.Model(&models.Employee{}).Order("employee_id ASC")

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("employee_id LIKE ? OR full_name LIKE ?", like, like)
	}
	switch ctx.Query("active") {
	case "":
	case "true":
		query = query.Where("is_active = ?", true)
	case "false":
		query = query.Where("is_active = ?", false)
	default:
		utils.Error(ctx, http.StatusBadRequest, 40040, "active must be true or false")
		return
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		utils.Sugar.Errorf("employee list failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to fetch employees")
		return
	}

	utils.Success(ctx, gin.H{
		"count":     len(employees),
		"employees": employees,
	})
}

type employeeUpsertRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	FullName   string `json:"fullName" binding:"required"`
	Email      string `json:"email"`
	Department string `json:"department"`
	IsActive   *bool  `json:"isActive"`
}

// Upsert creates or updates one directory entry, keyed by employee ID.
// Omitting isActive on an update leaves the flag as it was; on a create the
// employee starts active.
func (ec *EmployeeController) Upsert(ctx *gin.Context) {
	var req employeeUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "employeeId and fullName are required")
		return
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" || models.IsSpecialType(strings.ToLower(employeeID)) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid employee ID")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	employee := models.Employee{
		EmployeeID: employeeID,
		FullName:   strings.TrimSpace(req.FullName),
		Email:      strings.TrimSpace(req.Email),
		Department: strings.TrimSpace(req.Department),
		IsActive:   active,
	}

	assignments := []string{"full_name", "email", "department", "updated_at"}
	if req.IsActive != nil {
		assignments = append(assignments, "is_active")
	}

	if err := ec.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(&employee).Error; err != nil {
		utils.Sugar.Errorf("employee upsert failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to save employee")
		return
	}

	utils.Success(ctx, employee)
}
