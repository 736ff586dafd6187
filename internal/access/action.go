package access

import (
	"strings"

	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// requiredLevels is the single registry of action requirements. New
// actions are added here, not matched at call sites.
var requiredLevels = map[string]Level{
	"view":     LevelRead,
	"read":     LevelRead,
	"create":   LevelWrite,
	"edit":     LevelWrite,
	"update":   LevelWrite,
	"delete":   LevelAdmin,
	"manage":   LevelAdmin,
	"invite":   LevelAdmin,
	"settings": LevelAdmin,
}

// RequiredLevel returns the permission level an action requires. Action
// names are case-insensitive. Unrecognized actions require read access:
// the fail-open default is a deliberate product decision, unknown actions
// are assumed safe rather than rejected.
func RequiredLevel(action string) Level {
	if lvl, ok := requiredLevels[strings.ToLower(action)]; ok {
		return lvl
	}
	return LevelRead
}

// Context carries the caller's identity and profile plus a loading flag
// set while upstream suite or profile data is still being fetched.
type Context struct {
	User    *models.Identity
	Profile *models.UserProfile
	Loading bool
}

// Decision is the result of authorizing an action on a suite. Both levels
// are populated for diagnostic display; Code is empty when allowed.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Action   string `json:"action"`
	Required Level  `json:"required_level"`
	Granted  Level  `json:"granted_level"`
	Source   Source `json:"source,omitempty"`
	Code     Code   `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Authorize checks whether the caller may perform action on the suite.
// It validates inputs, resolves the caller's permission and compares it
// with the action's required level. Pure function of its inputs.
func Authorize(actx Context, suite *models.Suite, action string) Decision {
	required := RequiredLevel(action)

	if actx.Loading {
		return denied(action, required, LevelNone, "", CodeLoading)
	}
	if suite == nil {
		return denied(action, required, LevelNone, "", CodeNoSuiteSelected)
	}
	if actx.User == nil || actx.User.UID == "" {
		return denied(action, required, LevelNone, "", CodeUserNotAuthenticated)
	}
	if suite.ID == "" {
		return denied(action, required, LevelNone, "", CodeInvalidSuiteID)
	}

	res := Resolve(suite, actx.User.UID, actx.Profile)
	switch res.Source {
	case SourceMissingParameters:
		return denied(action, required, res.Level, res.Source, CodeMissingParameters)
	case SourceDenied, SourceMissingAccessControl:
		return denied(action, required, res.Level, res.Source, CodeAccessDenied)
	}

	if !res.Level.Satisfies(required) {
		return denied(action, required, res.Level, res.Source, denialCode(res.Source))
	}

	return Decision{
		Allowed:  true,
		Action:   action,
		Required: required,
		Granted:  res.Level,
		Source:   res.Source,
	}
}

// denialCode picks the denial reason for an insufficient level based on
// where the level came from.
func denialCode(src Source) Code {
	switch src {
	case SourceOrgMembership:
		return CodeInsufficientOrgRole
	case SourceMemberList:
		return CodeMemberReadOnly
	default:
		return CodeInsufficientPermission
	}
}

func denied(action string, required, granted Level, src Source, code Code) Decision {
	return Decision{
		Allowed:  false,
		Action:   action,
		Required: required,
		Granted:  granted,
		Source:   src,
		Code:     code,
		Message:  Message(code),
	}
}
