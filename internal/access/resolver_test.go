package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

func orgSuite(orgID string) *models.Suite {
	return &models.Suite{
		ID:             "suite-1",
		OwnerID:        orgID,
		AccountType:    models.AccountOrganization,
		OrganizationID: &orgID,
		AccessControl:  &models.AccessControl{OwnerID: orgID},
	}
}

func TestResolve(t *testing.T) {
	org := "org-1"

	tests := []struct {
		name       string
		suite      *models.Suite
		userID     string
		profile    *models.UserProfile
		wantLevel  Level
		wantSource Source
	}{
		{
			name: "owner gets admin even when access control denies them",
			suite: &models.Suite{
				ID:      "suite-1",
				OwnerID: "u1",
				AccessControl: &models.AccessControl{
					OwnerID:           "u1",
					PermissionsMatrix: map[string]string{"u1": "read"},
				},
			},
			userID:     "u1",
			wantLevel:  LevelAdmin,
			wantSource: SourceOwner,
		},
		{
			name: "access control owner without suite owner field",
			suite: &models.Suite{
				ID:            "suite-1",
				OwnerID:       "someone-else",
				AccessControl: &models.AccessControl{OwnerID: "u1"},
			},
			userID:     "u1",
			wantLevel:  LevelAdmin,
			wantSource: SourceOwner,
		},
		{
			name: "admins list grants admin",
			suite: &models.Suite{
				ID:            "suite-1",
				OwnerID:       "u0",
				AccessControl: &models.AccessControl{OwnerID: "u0", Admins: []string{"u1"}},
			},
			userID:     "u1",
			wantLevel:  LevelAdmin,
			wantSource: SourceAdminList,
		},
		{
			name: "matrix entry wins over members list",
			suite: &models.Suite{
				ID:      "suite-1",
				OwnerID: "u0",
				AccessControl: &models.AccessControl{
					OwnerID:           "u0",
					Members:           []string{"u1"},
					PermissionsMatrix: map[string]string{"u1": "write"},
				},
			},
			userID:     "u1",
			wantLevel:  LevelWrite,
			wantSource: SourceMatrix,
		},
		{
			name:   "active org viewer membership maps to read",
			suite:  orgSuite(org),
			userID: "u1",
			profile: &models.UserProfile{
				UID:         "u1",
				Memberships: []models.OrgMembership{{OrgID: org, Role: "viewer", Status: "active"}},
			},
			wantLevel:  LevelRead,
			wantSource: SourceOrgMembership,
		},
		{
			name:   "active org editor membership maps to write",
			suite:  orgSuite(org),
			userID: "u1",
			profile: &models.UserProfile{
				UID:         "u1",
				Memberships: []models.OrgMembership{{OrgID: org, Role: "editor", Status: "active"}},
			},
			wantLevel:  LevelWrite,
			wantSource: SourceOrgMembership,
		},
		{
			name:   "org admin membership maps to admin",
			suite:  orgSuite(org),
			userID: "u1",
			profile: &models.UserProfile{
				UID:         "u1",
				Memberships: []models.OrgMembership{{OrgID: org, Role: "admin", Status: "active"}},
			},
			wantLevel:  LevelAdmin,
			wantSource: SourceOrgMembership,
		},
		{
			name:   "unrecognized org role falls back to read",
			suite:  orgSuite(org),
			userID: "u1",
			profile: &models.UserProfile{
				UID:         "u1",
				Memberships: []models.OrgMembership{{OrgID: org, Role: "stakeholder", Status: "active"}},
			},
			wantLevel:  LevelRead,
			wantSource: SourceOrgMembership,
		},
		{
			name:   "pending membership is ignored",
			suite:  orgSuite(org),
			userID: "u1",
			profile: &models.UserProfile{
				UID:         "u1",
				Memberships: []models.OrgMembership{{OrgID: org, Role: "admin", Status: "pending"}},
			},
			wantLevel:  LevelNone,
			wantSource: SourceDenied,
		},
		{
			name: "members list grants read",
			suite: &models.Suite{
				ID:            "suite-1",
				OwnerID:       "u0",
				AccessControl: &models.AccessControl{OwnerID: "u0", Members: []string{"u1"}},
			},
			userID:     "u1",
			wantLevel:  LevelRead,
			wantSource: SourceMemberList,
		},
		{
			name: "authenticated stranger is denied",
			suite: &models.Suite{
				ID:            "suite-1",
				OwnerID:       "u0",
				AccessControl: &models.AccessControl{OwnerID: "u0"},
			},
			userID:     "u1",
			wantLevel:  LevelNone,
			wantSource: SourceDenied,
		},
		{
			name:       "missing suite",
			suite:      nil,
			userID:     "u1",
			wantLevel:  LevelNone,
			wantSource: SourceMissingParameters,
		},
		{
			name:       "missing user id",
			suite:      &models.Suite{ID: "suite-1", OwnerID: "u0"},
			userID:     "",
			wantLevel:  LevelNone,
			wantSource: SourceMissingParameters,
		},
		{
			name:       "missing access control is not an ordinary denial",
			suite:      &models.Suite{ID: "suite-1", OwnerID: "u0"},
			userID:     "u1",
			wantLevel:  LevelNone,
			wantSource: SourceMissingAccessControl,
		},
		{
			name:       "owner resolves even without access control",
			suite:      &models.Suite{ID: "suite-1", OwnerID: "u1"},
			userID:     "u1",
			wantLevel:  LevelAdmin,
			wantSource: SourceOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.suite, tt.userID, tt.profile)
			assert.Equal(t, tt.wantLevel, res.Level)
			assert.Equal(t, tt.wantSource, res.Source)
		})
	}
}

func TestResolveOwnerIgnoresAccessControlContents(t *testing.T) {
	// Ownership must win no matter what the access document says.
	contents := []*models.AccessControl{
		nil,
		{OwnerID: "other"},
		{OwnerID: "other", PermissionsMatrix: map[string]string{"u1": "read"}},
		{OwnerID: "other", Members: []string{"u1"}},
	}
	for _, ac := range contents {
		res := Resolve(&models.Suite{ID: "s", OwnerID: "u1", AccessControl: ac}, "u1", nil)
		assert.Equal(t, LevelAdmin, res.Level)
		assert.Equal(t, SourceOwner, res.Source)
	}
}
