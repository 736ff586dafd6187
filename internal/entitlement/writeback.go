package entitlement

import "github.com/kweid-platfrom/frontend-sub005/internal/models"

// TrialSync is the recomputed trial state to persist back onto a profile.
type TrialSync struct {
	IsTrialActive      bool
	TrialDaysRemaining int
}

// TrialDelta reports whether the persisted trial flags on the profile
// differ from the freshly evaluated ones and supplies the values to
// write. The write itself belongs to the caller; skipping unchanged
// values keeps the write-back idempotent.
func TrialDelta(profile *models.UserProfile, caps Capabilities) (TrialSync, bool) {
	if profile == nil {
		return TrialSync{}, false
	}
	sync := TrialSync{
		IsTrialActive:      caps.IsTrialActive,
		TrialDaysRemaining: caps.TrialDaysRemaining,
	}
	changed := profile.IsTrialActive != sync.IsTrialActive ||
		profile.TrialDaysRemaining != sync.TrialDaysRemaining
	return sync, changed
}
