// Package models contains the domain model shared by the business logic
// and the storage layer: users, profiles, organization memberships and
// test suites with their access control documents.
package models

import "time"

// Identity is the authenticated caller as supplied by the auth layer.
type Identity struct {
	UID           string // unique user id
	Username      string
	EmailVerified bool
}

// User represents a registered user row as stored in the database.
type User struct {
	UID                string
	Email              string
	Username           string
	PasswordHash       string
	EmailVerified      bool
	AccountType        string     // individual or organization
	OrganizationID     *string    // set when AccountType is organization
	SubscriptionType   string     // free, trial, individual, team, premium, enterprise
	SubscriptionStatus string     // active, inactive, canceled
	TrialStartDate     *time.Time // start of the trial period
	TrialEndDate       *time.Time // end of the trial period
	IsTrialActive      bool       // persisted cache, recomputed before use
	TrialDaysRemaining int        // persisted cache, recomputed before use
}

// OrgMembership links a user to an organization with a role.
type OrgMembership struct {
	OrgID  string `json:"org_id"`
	Role   string `json:"role"`   // owner, admin, member, editor, viewer
	Status string `json:"status"` // active, pending, revoked
}

// UserProfile is the subscription and organization view of a user that the
// access and entitlement logic consumes. The persisted trial flags are a
// write-back target only; current values are always recomputed from
// TrialEndDate against the injected clock.
type UserProfile struct {
	UID                string          `json:"uid"`
	AccountType        string          `json:"account_type"`
	OrganizationID     *string         `json:"organization_id,omitempty"`
	Memberships        []OrgMembership `json:"memberships,omitempty"`
	SubscriptionType   string          `json:"subscription_type"`
	SubscriptionStatus string          `json:"subscription_status"`
	TrialStartDate     *time.Time      `json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time      `json:"trial_end_date,omitempty"`
	IsTrialActive      bool            `json:"is_trial_active"`
	TrialDaysRemaining int             `json:"trial_days_remaining"`
}

// Membership returns the active membership for the given organization,
// or nil when the user has none.
func (p *UserProfile) Membership(orgID string) *OrgMembership {
	if p == nil || orgID == "" {
		return nil
	}
	for i := range p.Memberships {
		m := &p.Memberships[i]
		if m.OrgID == orgID && m.Status == "active" {
			return m
		}
	}
	return nil
}
