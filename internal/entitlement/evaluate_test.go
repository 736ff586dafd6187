package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluateNilProfile(t *testing.T) {
	// Free defaults for any clock value.
	for _, now := range []time.Time{testNow, testNow.AddDate(-10, 0, 0), testNow.AddDate(10, 0, 0)} {
		caps := Evaluate(nil, now)
		assert.Equal(t, TierFree, caps.SubscriptionType)
		assert.Equal(t, Limits{Suites: 1, TestCases: 10, Recordings: 5, AutomatedScripts: 0}, caps.Limits)
		assert.False(t, caps.IsTrialActive)
		assert.Zero(t, caps.TrialDaysRemaining)
		assert.False(t, caps.CanCreateMultipleSuites)
		assert.True(t, caps.ShowUpgradePrompt)
	}
}

func TestEvaluateTrialRecomputedFromEndDate(t *testing.T) {
	tests := []struct {
		name          string
		end           *time.Time
		wantActive    bool
		wantRemaining int
	}{
		{"ended one second ago", timePtr(testNow.Add(-time.Second)), false, 0},
		{"ends in one day", timePtr(testNow.Add(24 * time.Hour)), true, 1},
		{"ends in one hour", timePtr(testNow.Add(time.Hour)), true, 1},
		{"ends in ten days", timePtr(testNow.Add(10 * 24 * time.Hour)), true, 10},
		{"no end date", nil, false, 0},
		{"ends exactly now", timePtr(testNow), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.UserProfile{
				UID:              "u1",
				SubscriptionType: TierFree,
				TrialEndDate:     tt.end,
				// Stale persisted flags that must be ignored.
				IsTrialActive:      !tt.wantActive,
				TrialDaysRemaining: 99,
			}
			caps := Evaluate(profile, testNow)
			assert.Equal(t, tt.wantActive, caps.IsTrialActive)
			assert.Equal(t, tt.wantRemaining, caps.TrialDaysRemaining)
		})
	}
}

func TestEvaluateActiveTrialUsesTrialTierLimits(t *testing.T) {
	profile := &models.UserProfile{
		UID:              "u1",
		SubscriptionType: TierFree,
		TrialEndDate:     timePtr(testNow.AddDate(0, 0, 20)),
	}
	caps := Evaluate(profile, testNow)
	assert.True(t, caps.IsTrialActive)
	// Nominal type is reported as persisted, limits come from the trial tier.
	assert.Equal(t, TierFree, caps.SubscriptionType)
	assert.Equal(t, tiers[TierTrial].Limits, caps.Limits)
	assert.True(t, caps.CanCreateMultipleSuites)
	assert.True(t, caps.CanInviteTeamMembers)
	assert.False(t, caps.ShowUpgradePrompt)
}

func TestEvaluateTierTable(t *testing.T) {
	tests := []struct {
		tier          string
		wantSuites    int
		wantMultiple  bool
		wantAPI       bool
		wantReports   bool
		wantAutomated bool
	}{
		{TierFree, 1, false, false, false, false},
		{TierIndividual, 3, true, false, false, true},
		{TierTeam, 10, true, true, true, true},
		{TierPremium, Unlimited, true, true, true, true},
		{TierEnterprise, Unlimited, true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			caps := Evaluate(&models.UserProfile{UID: "u1", SubscriptionType: tt.tier}, testNow)
			assert.Equal(t, tt.wantSuites, caps.Limits.Suites)
			assert.Equal(t, tt.wantMultiple, caps.CanCreateMultipleSuites)
			assert.Equal(t, tt.wantAPI, caps.CanUseAPI)
			assert.Equal(t, tt.wantReports, caps.CanAccessAdvancedReports)
			assert.Equal(t, tt.wantAutomated, caps.CanUseAutomation)
		})
	}
}

func TestEvaluateUnknownTierFallsBackToFree(t *testing.T) {
	caps := Evaluate(&models.UserProfile{UID: "u1", SubscriptionType: "platinum"}, testNow)
	assert.Equal(t, tiers[TierFree].Limits, caps.Limits)
}

func TestEvaluateBannerFlags(t *testing.T) {
	tests := []struct {
		name        string
		end         *time.Time
		subType     string
		wantBanner  bool
		wantUpgrade bool
	}{
		{"trial with 3 days left shows banner", timePtr(testNow.Add(3 * 24 * time.Hour)), TierFree, true, false},
		{"trial with 20 days left shows no banner", timePtr(testNow.Add(20 * 24 * time.Hour)), TierFree, false, false},
		{"expired trial on free shows upgrade prompt", timePtr(testNow.Add(-time.Hour)), TierFree, false, true},
		{"expired trial on team shows nothing", timePtr(testNow.Add(-time.Hour)), TierTeam, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Evaluate(&models.UserProfile{UID: "u1", SubscriptionType: tt.subType, TrialEndDate: tt.end}, testNow)
			assert.Equal(t, tt.wantBanner, caps.ShowTrialBanner)
			assert.Equal(t, tt.wantUpgrade, caps.ShowUpgradePrompt)
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	profile := &models.UserProfile{
		UID:              "u1",
		SubscriptionType: TierTeam,
		TrialEndDate:     timePtr(testNow.AddDate(0, 0, 5)),
	}
	assert.Equal(t, Evaluate(profile, testNow), Evaluate(profile, testNow))
}
