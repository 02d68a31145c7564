package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/models"
)

const codePrefix = "AMNEX"

// DateKey renders the calendar date all per-day rules are evaluated over.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// codeDate renders the M/D/YY component of a coupon code. Both the code date
// and DateKey are derived from the same "now" so they can never diverge.
func codeDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%02d", int(t.Month()), t.Day(), t.Year()%100)
}

// nextSequence hands out the next per-date sequence number. It must run
// inside a transaction: the counter row is locked FOR UPDATE, which makes the
// number collision-free and, as a side effect, serializes all issuance for
// the date so the look-up-then-insert steps around it are race-free too.
func nextSequence(tx *gorm.DB, date string) (int, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DailySequence{Date: date}).Error; err != nil {
		return 0, err
	}

	var seq models.DailySequence
	if err := lockForUpdate(tx).Where("date = ?", date).First(&seq).Error; err != nil {
		return 0, err
	}

	seq.LastSeq++
	if err := tx.Model(&models.DailySequence{}).Where("id = ?", seq.ID).
		Update("last_seq", seq.LastSeq).Error; err != nil {
		return 0, err
	}
	return seq.LastSeq, nil
}

// lockDate takes the per-date serialization lock without consuming a
// sequence number. Special issuance uses it so its cap check cannot race a
// concurrent insert while employee code numbers stay gapless.
func lockDate(tx *gorm.DB, date string) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DailySequence{Date: date}).Error; err != nil {
		return err
	}
	var seq models.DailySequence
	return lockForUpdate(tx).Where("date = ?", date).First(&seq).Error
}

// employeeCode builds the human-readable AMNEX-{seq}-{M/D/YY} code.
func employeeCode(seq int, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", codePrefix, seq, codeDate(now))
}

// RandomSpecialCode generates a code for admin-issued coupons when the caller
// does not supply one. Uniqueness is ultimately enforced by the coupon_code
// unique index, not here.
func RandomSpecialCode(now time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", codePrefix, frag, codeDate(now))
}

// lockForUpdate adds a row lock on dialects that support it. SQLite (used in
// tests) rejects FOR UPDATE and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
