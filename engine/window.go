package engine

import (
	"fmt"
	"time"
)

// WithinServiceWindow reports whether now falls inside the configured
// issuance window, inclusive on both ends. Times are compared as
// minutes-since-midnight in now's location (the server's local zone in
// production). Windows that cross midnight (end before start) are not
// supported and evaluate to false for most of the day; they are rejected
// as-is rather than silently reinterpreted.
//
// The gate applies only to new ordinary-employee issuance. Replays of an
// existing coupon, admin special issuance, and redemption are never gated.
func WithinServiceWindow(now time.Time, s Settings) bool {
	nowMinutes := now.Hour()*60 + now.Minute()
	startMinutes := s.StartTime*60 + s.StartMinutes
	endMinutes := s.EndTime*60 + s.EndMinutes
	return nowMinutes >= startMinutes && nowMinutes <= endMinutes
}

// FormatWindow renders the configured window as "10:00 AM and 11:00 PM" for
// user-facing rejection messages.
func FormatWindow(s Settings) (string, string) {
	return formatClock(s.StartTime, s.StartMinutes), formatClock(s.EndTime, s.EndMinutes)
}

func formatClock(hours, minutes int) string {
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, period)
}
