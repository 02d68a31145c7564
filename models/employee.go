package models

import "time"

// Employee is the cafeteria portal's view of the staff directory. Only active
// employees may request coupons.
type Employee struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID string    `gorm:"size:32;uniqueIndex;not null" json:"employeeId"`
	FullName   string    `gorm:"size:128;not null" json:"fullName"`
	Email      string    `gorm:"size:255" json:"email"`
	Department string    `gorm:"size:64" json:"department"`
	IsActive   bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
