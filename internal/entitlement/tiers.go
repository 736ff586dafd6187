// Package entitlement derives subscription capabilities from a user
// profile: trial status, feature limits per tier and the suite creation
// guard. Evaluation is a pure function of the profile and an injected
// clock; persisted trial flags are only a write-back target and are never
// read as truth.
package entitlement

// Unlimited is the sentinel limit value meaning no cap.
const Unlimited = -1

// Subscription tier names.
const (
	TierFree       = "free"
	TierTrial      = "trial"
	TierIndividual = "individual"
	TierTeam       = "team"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

// Limits fixes the feature caps of a tier.
type Limits struct {
	Suites           int `json:"suites"`
	TestCases        int `json:"test_cases"`
	Recordings       int `json:"recordings"`
	AutomatedScripts int `json:"automated_scripts"`
}

// tier bundles the limits and capability flags of one subscription tier.
type tier struct {
	Limits          Limits
	AdvancedReports bool
	InviteMembers   bool
	API             bool
	Automation      bool
}

// tiers is the fixed tier table. Capability flags live here so they are
// derived from the table, not from ad hoc per-field checks.
var tiers = map[string]tier{
	TierFree: {
		Limits: Limits{Suites: 1, TestCases: 10, Recordings: 5, AutomatedScripts: 0},
	},
	TierTrial: {
		Limits:          Limits{Suites: 5, TestCases: 100, Recordings: 25, AutomatedScripts: 10},
		AdvancedReports: true,
		InviteMembers:   true,
		Automation:      true,
	},
	TierIndividual: {
		Limits:     Limits{Suites: 3, TestCases: 500, Recordings: 100, AutomatedScripts: 25},
		Automation: true,
	},
	TierTeam: {
		Limits:          Limits{Suites: 10, TestCases: 5000, Recordings: 500, AutomatedScripts: 200},
		AdvancedReports: true,
		InviteMembers:   true,
		API:             true,
		Automation:      true,
	},
	TierPremium: {
		Limits:          Limits{Suites: Unlimited, TestCases: Unlimited, Recordings: Unlimited, AutomatedScripts: Unlimited},
		AdvancedReports: true,
		InviteMembers:   true,
		API:             true,
		Automation:      true,
	},
	TierEnterprise: {
		Limits:          Limits{Suites: Unlimited, TestCases: Unlimited, Recordings: Unlimited, AutomatedScripts: Unlimited},
		AdvancedReports: true,
		InviteMembers:   true,
		API:             true,
		Automation:      true,
	},
}

// tierFor returns the tier table row for a tier name, falling back to the
// free tier for empty or unknown names.
func tierFor(name string) tier {
	if t, ok := tiers[name]; ok {
		return t
	}
	return tiers[TierFree]
}
