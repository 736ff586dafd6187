package entitlement

import "github.com/kweid-platfrom/frontend-sub005/internal/models"

// CanCreateSuite decides whether the user may create another suite given
// their capabilities and current suite count. Unresolved entitlement
// (nil profile or capabilities) means zero capacity and returns false
// rather than failing. Callers use this twice: once to gate the UI
// affordance and once, authoritatively, right before the creation write;
// the second check is mandatory because the count may have changed in
// between.
func CanCreateSuite(profile *models.UserProfile, caps *Capabilities, currentSuiteCount int) bool {
	if profile == nil || caps == nil {
		return false
	}
	if caps.Limits.Suites == Unlimited {
		return true
	}
	return currentSuiteCount < caps.Limits.Suites
}
