// Package entitlement derives subscription state from an account's stored plan window.
// Nothing here is persisted; callers recompute on every read.
package entitlement

import (
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

const day = 24 * time.Hour

// ExpiringSoonDays is the threshold below which an active plan reports StatusExpiringSoon.
const ExpiringSoonDays = 7

type Status string

const (
	StatusNone         Status = "none"
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// IsActive is true iff the account has a plan whose end lies strictly after now.
func IsActive(a *entity.Account, now time.Time) bool {
	if a == nil || a.ActivePlan == nil {
		return false
	}
	return now.Before(a.ActivePlan.EndDate)
}

// DaysRemaining rounds the time left up to whole days; 0 when inactive.
func DaysRemaining(a *entity.Account, now time.Time) int {
	if !IsActive(a, now) {
		return 0
	}
	left := a.ActivePlan.EndDate.Sub(now)
	days := int(left / day)
	if left%day != 0 {
		days++
	}
	return days
}

// Evaluate classifies the account's plan at now.
func Evaluate(a *entity.Account, now time.Time) Status {
	switch {
	case a == nil || a.ActivePlan == nil:
		return StatusNone
	case !IsActive(a, now):
		return StatusExpired
	case DaysRemaining(a, now) <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}
