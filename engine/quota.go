package engine

import (
	"gorm.io/gorm"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

// TypeCounts holds, for one calendar date, the number of coupons already
// issued per category.
type TypeCounts struct {
	Employee    int `json:"employee"`
	Guest       int `json:"guest"`
	NewEmployee int `json:"newEmployee"`
	Open        int `json:"open"`
}

// PoolQuota is one pool's max/used/remaining view. Remaining is not clamped;
// a negative value means the pool was overdrawn (e.g. the cap was lowered
// after coupons were issued).
type PoolQuota struct {
	Max       int `json:"max"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// Quota is the full remaining-quota view for a date.
//
// TotalUsed deliberately excludes the open pool: open coupons appear in the
// per-category counts but never consume the aggregate maxCoupons budget. Open
// coupons are walk-in extras the cafeteria hands out on top of the planned
// headcount.
type Quota struct {
	MaxCoupons  int       `json:"maxCoupons"`
	TotalUsed   int       `json:"totalUsed"`
	Remaining   int       `json:"remaining"`
	Guest       PoolQuota `json:"guestCoupons"`
	NewEmployee PoolQuota `json:"newEmployeeCoupons"`
	Open        PoolQuota `json:"openCoupons"`
	Employee    PoolQuota `json:"employeeCoupons"`
}

// CountForDate tallies coupons per category for one date.
func CountForDate(db *gorm.DB, date string) (TypeCounts, error) {
	var rows []struct {
		CouponType string
		Count      int
	}
	err := db.Model(&models.Coupon{}).
		Select("coupon_type, COUNT(*) as count").
		Where("date_created = ?", date).
		Group("coupon_type").
		Scan(&rows).Error
	if err != nil {
		return TypeCounts{}, err
	}

	var c TypeCounts
	for _, row := range rows {
		switch row.CouponType {
		case models.CouponTypeEmployee:
			c.Employee = row.Count
		case models.CouponTypeGuest:
			c.Guest = row.Count
		case models.CouponTypeNewEmployee:
			c.NewEmployee = row.Count
		case models.CouponTypeOpen:
			c.Open = row.Count
		}
	}
	return c, nil
}

// ComputeRemaining derives the quota view from already-fetched counts and
// settings. Pure so the quota math is testable with fixed inputs.
func ComputeRemaining(counts TypeCounts, s Settings) Quota {
	totalUsed := counts.Employee + counts.Guest + counts.NewEmployee
	return Quota{
		MaxCoupons: s.MaxCoupons,
		TotalUsed:  totalUsed,
		Remaining:  s.MaxCoupons - totalUsed,
		Guest: PoolQuota{
			Max:       s.GuestCoupons,
			Used:      counts.Guest,
			Remaining: s.GuestCoupons - counts.Guest,
		},
		NewEmployee: PoolQuota{
			Max:       s.NewEmployeeCoupons,
			Used:      counts.NewEmployee,
			Remaining: s.NewEmployeeCoupons - counts.NewEmployee,
		},
		Open: PoolQuota{
			Max:       s.OpenCoupons,
			Used:      counts.Open,
			Remaining: s.OpenCoupons - counts.Open,
		},
		Employee: PoolQuota{
			Used:      counts.Employee,
			Remaining: s.MaxCoupons - totalUsed,
		},
	}
}

// Remaining fetches counts for a date and derives the quota view.
func Remaining(db *gorm.DB, date string, s Settings) (Quota, error) {
	counts, err := CountForDate(db, date)
	if err != nil {
		return Quota{}, err
	}
	return ComputeRemaining(counts, s), nil
}
