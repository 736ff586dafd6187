package entitlement

import (
	"math"
	"time"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// trialBannerDays is the remaining-days threshold under which the trial
// countdown banner is shown.
const trialBannerDays = 7

// Capabilities is the derived entitlement view of a profile: effective
// trial status, feature limits and capability flags. Derived only, never
// persisted by this package.
type Capabilities struct {
	SubscriptionType         string `json:"subscription_type"`
	SubscriptionStatus       string `json:"subscription_status"`
	IsTrialActive            bool   `json:"is_trial_active"`
	TrialDaysRemaining       int    `json:"trial_days_remaining"`
	Limits                   Limits `json:"limits"`
	CanCreateMultipleSuites  bool   `json:"can_create_multiple_suites"`
	CanAccessAdvancedReports bool   `json:"can_access_advanced_reports"`
	CanInviteTeamMembers     bool   `json:"can_invite_team_members"`
	CanUseAPI                bool   `json:"can_use_api"`
	CanUseAutomation         bool   `json:"can_use_automation"`
	ShowTrialBanner          bool   `json:"show_trial_banner"`
	ShowUpgradePrompt        bool   `json:"show_upgrade_prompt"`
}

// Evaluate derives the current capabilities of a profile at the given
// time. Trial status is recomputed from TrialEndDate; the persisted
// IsTrialActive and TrialDaysRemaining flags are treated as stale. While
// a trial is active, limits come from the trial tier regardless of the
// nominal subscription type. Pure function of (profile, now).
func Evaluate(profile *models.UserProfile, now time.Time) Capabilities {
	if profile == nil {
		return freeDefaults()
	}

	subType := profile.SubscriptionType
	if subType == "" {
		subType = TierFree
	}

	trialActive, daysRemaining := trialStatus(profile.TrialEndDate, now)

	effective := subType
	if trialActive {
		effective = TierTrial
	}
	t := tierFor(effective)

	return Capabilities{
		SubscriptionType:         subType,
		SubscriptionStatus:       profile.SubscriptionStatus,
		IsTrialActive:            trialActive,
		TrialDaysRemaining:       daysRemaining,
		Limits:                   t.Limits,
		CanCreateMultipleSuites:  t.Limits.Suites > 1 || t.Limits.Suites == Unlimited,
		CanAccessAdvancedReports: t.AdvancedReports,
		CanInviteTeamMembers:     t.InviteMembers,
		CanUseAPI:                t.API,
		CanUseAutomation:         t.Automation,
		ShowTrialBanner:          trialActive && daysRemaining <= trialBannerDays,
		ShowUpgradePrompt:        !trialActive && subType == TierFree,
	}
}

// trialStatus recomputes the trial flags from the end date. Remaining
// days are rounded up so a trial ending within the next 24h still counts
// as one day.
func trialStatus(end *time.Time, now time.Time) (bool, int) {
	if end == nil || !now.Before(*end) {
		return false, 0
	}
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return true, days
}

// freeDefaults is the hard-coded capability set for a missing profile.
func freeDefaults() Capabilities {
	t := tiers[TierFree]
	return Capabilities{
		SubscriptionType:  TierFree,
		Limits:            t.Limits,
		ShowUpgradePrompt: true,
	}
}
