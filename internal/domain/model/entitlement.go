package model

import "time"

// ExtendEntitlement stacks additional days onto an entitlement expiry.
// The base instant is the current expiry while it is still in the future,
// otherwise now, so unused remaining time is never lost when grants from
// the wheel and the sandbox purchase path land close together.
func ExtendEntitlement(now time.Time, current *time.Time, days int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(time.Duration(days) * 24 * time.Hour)
}
