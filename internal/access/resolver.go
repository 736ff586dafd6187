package access

import "github.com/kweid-platfrom/frontend-sub005/internal/models"

// Resolution is the outcome of resolving a user's permission on a suite.
type Resolution struct {
	Level  Level
	Source Source
}

// Resolve determines the effective permission level of userID on the
// suite. Rules are checked in order of grant strength and the first match
// wins: ownership trumps the admins list, which trumps the permissions
// matrix, which trumps an organization role, which trumps plain
// membership. Missing inputs resolve to no access with a source that is
// distinguishable from an ordinary denial.
func Resolve(suite *models.Suite, userID string, profile *models.UserProfile) Resolution {
	if suite == nil || userID == "" {
		return Resolution{Level: LevelNone, Source: SourceMissingParameters}
	}

	ac := suite.AccessControl

	// The owner always has admin access, even with a stale or missing
	// access control document.
	if suite.OwnerID == userID || (ac != nil && ac.OwnerID == userID) {
		return Resolution{Level: LevelAdmin, Source: SourceOwner}
	}

	if ac == nil {
		return Resolution{Level: LevelNone, Source: SourceMissingAccessControl}
	}

	if ac.HasAdmin(userID) {
		return Resolution{Level: LevelAdmin, Source: SourceAdminList}
	}

	if name, ok := ac.PermissionsMatrix[userID]; ok {
		return Resolution{Level: ParseLevel(name), Source: SourceMatrix}
	}

	if suite.AccountType == models.AccountOrganization && suite.OrganizationID != nil {
		if m := profile.Membership(*suite.OrganizationID); m != nil {
			return Resolution{Level: roleLevel(m.Role), Source: SourceOrgMembership}
		}
	}

	if ac.HasMember(userID) {
		return Resolution{Level: LevelRead, Source: SourceMemberList}
	}

	return Resolution{Level: LevelNone, Source: SourceDenied}
}

// roleLevel maps an organization role to a permission level. Unrecognized
// roles get read access.
func roleLevel(role string) Level {
	switch role {
	case "admin", "owner":
		return LevelAdmin
	case "member", "editor":
		return LevelWrite
	case "viewer":
		return LevelRead
	default:
		return LevelRead
	}
}
